package utils

import "go.uber.org/zap"

// EmailDispatcher abstracts the outbound mail transport used by the
// verification and password-reset flows. Delivery itself is an external
// collaborator; the default implementation only logs.
type EmailDispatcher interface {
	SendVerification(email, token string) error
	SendPasswordReset(email, token string) error
}

type LogDispatcher struct {
	Logger *zap.Logger
}

func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{Logger: logger}
}

func (d *LogDispatcher) SendVerification(email, token string) error {
	d.Logger.Info("verification email queued", zap.String("email", email), zap.String("token", token))
	return nil
}

func (d *LogDispatcher) SendPasswordReset(email, token string) error {
	d.Logger.Info("password reset email queued", zap.String("email", email), zap.String("token", token))
	return nil
}

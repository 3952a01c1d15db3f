package controllers

import "github.com/gin-gonic/gin"

// message writes the error envelope shared by every endpoint.
func message(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"message": msg})
}

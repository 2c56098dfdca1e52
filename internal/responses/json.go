package responses

import "github.com/gin-gonic/gin"

type APIResponse struct {
	Success           bool        `json:"success"`
	Data              interface{} `json:"data,omitempty"`
	Error             string      `json:"error,omitempty"`
	NeedsVerification bool        `json:"needs_verification,omitempty"`
	Email             string      `json:"email,omitempty"`
}

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Data:    data,
	})
}

func Fail(c *gin.Context, statusCode int, err error) {
	resp := APIResponse{Success: false}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(statusCode, resp)
}

// AbortFail writes the failure envelope and stops the handler chain.
func AbortFail(c *gin.Context, statusCode int, err error) {
	Fail(c, statusCode, err)
	c.Abort()
}

// NeedsVerification answers a sign-in attempt for an account whose email
// has not been confirmed yet.
func NeedsVerification(c *gin.Context, statusCode int, err error, email string) {
	resp := APIResponse{
		Success:           false,
		NeedsVerification: true,
		Email:             email,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(statusCode, resp)
}

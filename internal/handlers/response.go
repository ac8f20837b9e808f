package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/sprachvideo/backend/internal/apierr"
)

type APIError struct {
  Message string `json:"message"`
  Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
  msg := "unknown error"
  if err != nil {
    msg = err.Error()
  }
  c.JSON(status, ErrorEnvelope{
    Error: APIError{
      Message: msg,
      Code:    code,
    },
  })
}

// RespondClassified maps a taxonomy error onto its HTTP status.
func RespondClassified(c *gin.Context, code string, err error) {
  RespondError(c, apierr.HTTPStatus(err), code, err)
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}

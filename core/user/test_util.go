package user

import (
	"time"

	"github.com/darasahq/darasa/core"
)

// NewServiceMock returns a Service wired for tests: no config needed,
// token generation uses a fixed test secret.
func NewServiceMock(repo Repository, mailSvc core.EmailService) Service {
	secretKey = []byte("test-secret")
	passwordResetTimeoutDelta = 3 * 24 * time.Hour
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		appName: "Darasa",
	}
}

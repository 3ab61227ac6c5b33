package middlewares

import (
	"fmt"
)

func CheckInput(email, password string) error {
	if email == "" || password == "" {
		return ErrEmptyField
	}

	if !CorrectEmailChecker(email) {
		return ErrInvalidEmail
	}

	if len(password) < 8 {
		return fmt.Errorf("%w: minimum 8 characters required", ErrPasswordTooShort)
	}

	return nil
}

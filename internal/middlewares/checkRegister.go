package middlewares

import (
	"fmt"
	"net/mail"
)

func CheckRegister(name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return ErrEmptyField
	}

	if !CorrectEmailChecker(email) {
		return ErrInvalidEmail
	}

	if len(name) < 3 {
		return fmt.Errorf("%w: minimum 3 characters required", ErrNameTooShort)
	}

	if len(password) < 8 {
		return fmt.Errorf("%w: minimum 8 characters required", ErrPasswordTooShort)
	}

	return nil
}

func CorrectEmailChecker(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

package util

import (
	"net/mail"
	"strings"
)

// EmailValido confirma formato de email não vazio.
func EmailValido(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

// SenhaValida verifica requisitos mínimos de senha.
func SenhaValida(senha string) bool {
	return len(senha) >= 8
}

package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// Hash gera um hash bcrypt com salt por chamada e custo padrão da biblioteca.
func Hash(senha string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compara a senha em texto plano com o hash armazenado.
// A comparação em tempo constante é garantida pela própria biblioteca.
func Verify(senha, senhaHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(senhaHash), []byte(senha)) == nil
}

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenInvalido cobre assinatura inválida, expiração e payload malformado.
	ErrTokenInvalido = errors.New("token inválido")
)

// JWTManager encapsula geração e validação de tokens assinados com HS256.
type JWTManager struct {
	segredo   []byte
	accessTTL time.Duration
	resetTTL  time.Duration
}

// NewJWTManager cria o gerenciador com segredo e TTLs configurados.
func NewJWTManager(segredo string, accessTTL, resetTTL time.Duration) *JWTManager {
	return &JWTManager{segredo: []byte(segredo), accessTTL: accessTTL, resetTTL: resetTTL}
}

// CriarTokenAcesso emite um JWT com claims {exp, sub}. O subject é o id do
// usuário. Com ttl zero vale o TTL padrão da configuração.
func (m *JWTManager) CriarTokenAcesso(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = m.accessTTL
	}
	now := time.Now().UTC()

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.segredo)
}

// CriarTokenRedefinicao emite o token de redefinição de senha com claims
// {exp, nbf, sub}, onde o subject é o email da conta.
func (m *JWTManager) CriarTokenRedefinicao(email string) (string, error) {
	now := time.Now().UTC()

	claims := jwt.RegisteredClaims{
		Subject:   email,
		ExpiresAt: jwt.NewNumericDate(now.Add(m.resetTTL)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.segredo)
}

// Decodificar verifica assinatura, expiração e nbf; devolve as claims ou
// ErrTokenInvalido. Chamadores tratam a falha como erro de domínio, nunca
// deixam o erro da biblioteca vazar para a resposta.
func (m *JWTManager) Decodificar(tokenString string) (*jwt.RegisteredClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	claims := &jwt.RegisteredClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.segredo, nil
	})
	if err != nil {
		return nil, ErrTokenInvalido
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalido
	}

	return claims, nil
}

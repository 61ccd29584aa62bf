// Package cpf implementa o cálculo dos dígitos verificadores do CPF:
// duas passadas de soma ponderada sobre os nove primeiros dígitos.
package cpf

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// Digitos calcula os dois dígitos verificadores para os nove primeiros
// dígitos do CPF.
func Digitos(nove [9]int) (int, int) {
	soma := 0
	for i, d := range nove {
		soma += (10 - i) * d
	}
	primeiro := (soma * 10) % 11
	if primeiro == 10 {
		primeiro = 0
	}

	soma = 0
	for i, d := range nove {
		soma += (11 - i) * d
	}
	soma += 2 * primeiro
	segundo := (soma * 10) % 11
	if segundo == 10 {
		segundo = 0
	}

	return primeiro, segundo
}

// Valido verifica se a cadeia tem onze dígitos numéricos com verificadores
// corretos. Pontuação e traço não são aceitos: o formato persistido é apenas
// numérico.
func Valido(valor string) bool {
	if len(valor) != 11 {
		return false
	}

	var digitos [11]int
	for i, r := range valor {
		if r < '0' || r > '9' {
			return false
		}
		digitos[i] = int(r - '0')
	}

	var nove [9]int
	copy(nove[:], digitos[:9])
	primeiro, segundo := Digitos(nove)

	return digitos[9] == primeiro && digitos[10] == segundo
}

// Gerar produz um CPF numérico válido com os nove primeiros dígitos
// aleatórios.
func Gerar() string {
	var nove [9]int
	for i := range nove {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			// rand.Reader não falha em plataformas suportadas
			panic(err)
		}
		nove[i] = int(n.Int64())
	}

	primeiro, segundo := Digitos(nove)

	var b strings.Builder
	for _, d := range nove {
		b.WriteByte(byte('0' + d))
	}
	b.WriteByte(byte('0' + primeiro))
	b.WriteByte(byte('0' + segundo))
	return b.String()
}

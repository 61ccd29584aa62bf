package repo

import "time"

// Permissao enumera os níveis de permissão do usuário.
type Permissao string

const (
	PermissaoAdministrador Permissao = "Administrador"
	PermissaoUsuario       Permissao = "Usuario"
)

// Usuario representa a única entidade de domínio do serviço.
type Usuario struct {
	ID             int64     `json:"id"`
	Nome           *string   `json:"nome"`
	Sobrenome      *string   `json:"sobrenome"`
	CPF            string    `json:"cpf"`
	Email          string    `json:"email"`
	Telefone       string    `json:"telefone"`
	Permissao      Permissao `json:"permissao"`
	SenhaHash      string    `json:"-"`
	Ativo          bool      `json:"ativo"`
	Superusuario   bool      `json:"superusuario"`
	PrimeiroAcesso bool      `json:"primeiro_acesso"`
	CriadoEm       time.Time `json:"criado_em"`
}

// CriarUsuario carrega os dados de criação. A senha chega em texto plano e é
// convertida em hash antes de persistir; nunca é gravada sob o nome original.
type CriarUsuario struct {
	Nome         *string
	Sobrenome    *string
	CPF          string
	Email        string
	Telefone     string
	Senha        string
	Permissao    Permissao
	Ativo        bool
	Superusuario bool
}

// AtualizarUsuario carrega uma atualização parcial: apenas campos não nulos
// sobrescrevem os valores existentes (semântica merge-patch).
type AtualizarUsuario struct {
	Nome           *string
	Sobrenome      *string
	CPF            *string
	Email          *string
	Telefone       *string
	Senha          *string
	Permissao      *Permissao
	Ativo          *bool
	Superusuario   *bool
	PrimeiroAcesso *bool
}

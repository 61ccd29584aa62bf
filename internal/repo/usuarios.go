package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/urbanbyte/contas/internal/auth"
)

const colunasUsuario = `id, nome, sobrenome, cpf, email, telefone, permissao, senha_hash, ativo, superusuario, primeiro_acesso, criado_em`

// Repositorio provê acesso ao armazenamento de usuários. Cada operação de
// escrita é um único comando auto-confirmado; não há transação abrangendo
// múltiplas chamadas.
type Repositorio struct {
	pool *pgxpool.Pool
}

// NewRepositorio cria um novo repositório de usuários.
func NewRepositorio(pool *pgxpool.Pool) *Repositorio {
	return &Repositorio{pool: pool}
}

func scanUsuario(row pgx.Row) (Usuario, error) {
	var u Usuario
	err := row.Scan(
		&u.ID,
		&u.Nome,
		&u.Sobrenome,
		&u.CPF,
		&u.Email,
		&u.Telefone,
		&u.Permissao,
		&u.SenhaHash,
		&u.Ativo,
		&u.Superusuario,
		&u.PrimeiroAcesso,
		&u.CriadoEm,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Usuario{}, ErrNotFound
		}
		return Usuario{}, err
	}
	return u, nil
}

// Get busca usuário pelo identificador.
func (r *Repositorio) Get(ctx context.Context, id int64) (Usuario, error) {
	query := `SELECT ` + colunasUsuario + ` FROM usuarios WHERE id = $1`
	return scanUsuario(r.pool.QueryRow(ctx, query, id))
}

// GetByEmail busca usuário pelo email normalizado.
func (r *Repositorio) GetByEmail(ctx context.Context, email string) (Usuario, error) {
	query := `SELECT ` + colunasUsuario + ` FROM usuarios WHERE email = $1`
	return scanUsuario(r.pool.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))))
}

// GetByCPF busca usuário pelo CPF.
func (r *Repositorio) GetByCPF(ctx context.Context, valor string) (Usuario, error) {
	query := `SELECT ` + colunasUsuario + ` FROM usuarios WHERE cpf = $1`
	return scanUsuario(r.pool.QueryRow(ctx, query, valor))
}

// List devolve usuários paginados por deslocamento e limite, na ordem de
// armazenamento.
func (r *Repositorio) List(ctx context.Context, skip, limit int) ([]Usuario, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT ` + colunasUsuario + ` FROM usuarios ORDER BY id OFFSET $1 LIMIT $2`
	rows, err := r.pool.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usuarios []Usuario
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, err
		}
		usuarios = append(usuarios, u)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return usuarios, nil
}

// Create insere um novo usuário. A senha é transformada em hash aqui; os
// demais campos são copiados do input.
func (r *Repositorio) Create(ctx context.Context, input CriarUsuario) (Usuario, error) {
	senhaHash, err := auth.Hash(input.Senha)
	if err != nil {
		return Usuario{}, err
	}

	permissao := input.Permissao
	if permissao == "" {
		permissao = PermissaoUsuario
	}

	query := `
        INSERT INTO usuarios (nome, sobrenome, cpf, email, telefone, permissao, senha_hash, ativo, superusuario)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING ` + colunasUsuario

	return scanUsuario(r.pool.QueryRow(ctx, query,
		input.Nome,
		input.Sobrenome,
		input.CPF,
		strings.ToLower(strings.TrimSpace(input.Email)),
		input.Telefone,
		permissao,
		senhaHash,
		input.Ativo,
		input.Superusuario,
	))
}

// Update aplica merge-patch sobre o registro existente: somente campos
// presentes no input sobrescrevem os atuais. Uma senha nova é convertida em
// hash e substitui o hash armazenado.
func (r *Repositorio) Update(ctx context.Context, existente Usuario, input AtualizarUsuario) (Usuario, error) {
	set := make([]string, 0, 10)
	args := make([]any, 0, 11)

	adicionar := func(coluna string, valor any) {
		args = append(args, valor)
		set = append(set, fmt.Sprintf("%s = $%d", coluna, len(args)))
	}

	if input.Nome != nil {
		adicionar("nome", *input.Nome)
	}
	if input.Sobrenome != nil {
		adicionar("sobrenome", *input.Sobrenome)
	}
	if input.CPF != nil {
		adicionar("cpf", *input.CPF)
	}
	if input.Email != nil {
		adicionar("email", strings.ToLower(strings.TrimSpace(*input.Email)))
	}
	if input.Telefone != nil {
		adicionar("telefone", *input.Telefone)
	}
	if input.Permissao != nil {
		adicionar("permissao", *input.Permissao)
	}
	if input.Senha != nil {
		senhaHash, err := auth.Hash(*input.Senha)
		if err != nil {
			return Usuario{}, err
		}
		adicionar("senha_hash", senhaHash)
	}
	if input.Ativo != nil {
		adicionar("ativo", *input.Ativo)
	}
	if input.Superusuario != nil {
		adicionar("superusuario", *input.Superusuario)
	}
	if input.PrimeiroAcesso != nil {
		adicionar("primeiro_acesso", *input.PrimeiroAcesso)
	}

	if len(set) == 0 {
		return existente, nil
	}

	args = append(args, existente.ID)
	query := fmt.Sprintf(
		"UPDATE usuarios SET %s WHERE id = $%d RETURNING %s",
		strings.Join(set, ", "), len(args), colunasUsuario,
	)

	return scanUsuario(r.pool.QueryRow(ctx, query, args...))
}

// Authenticate busca por email e confere a senha. Não verifica o campo
// ativo; essa checagem é do chamador.
func (r *Repositorio) Authenticate(ctx context.Context, email, senha string) (Usuario, error) {
	usuario, err := r.GetByEmail(ctx, email)
	if err != nil {
		return Usuario{}, err
	}
	if !auth.Verify(senha, usuario.SenhaHash) {
		return Usuario{}, ErrNotFound
	}
	return usuario, nil
}

// Remove apaga o registro e devolve os dados removidos.
func (r *Repositorio) Remove(ctx context.Context, id int64) (Usuario, error) {
	query := `DELETE FROM usuarios WHERE id = $1 RETURNING ` + colunasUsuario
	return scanUsuario(r.pool.QueryRow(ctx, query, id))
}

package msg

import "testing"

func TestCatalogoPadrao(t *testing.T) {
	c := NovoCatalogo("pt-BR")
	if got := c.T(CredenciaisInvalidas); got != "Usuário ou senha inválidos." {
		t.Errorf("pt-BR credenciais: %q", got)
	}
}

func TestCatalogoIngles(t *testing.T) {
	c := NovoCatalogo("en")
	if got := c.T(UsuarioInativo); got != "Inactive user." {
		t.Errorf("en inativo: %q", got)
	}
}

func TestIdiomaDesconhecidoCaiEmPortugues(t *testing.T) {
	c := NovoCatalogo("klingon")
	if got := c.T(UsuarioInativo); got != "Usuário inativo." {
		t.Errorf("fallback: %q", got)
	}
}

func TestChaveDesconhecidaEhVisivel(t *testing.T) {
	c := NovoCatalogo("pt-BR")
	if got := c.T("nao_existe"); got != "nao_existe" {
		t.Errorf("chave desconhecida: %q", got)
	}
}

func TestTodasAsChavesEmTodosOsIdiomas(t *testing.T) {
	referencia := catalogos["pt-BR"]
	for idioma, mensagens := range catalogos {
		for chave := range referencia {
			if _, ok := mensagens[chave]; !ok {
				t.Errorf("idioma %s sem a chave %s", idioma, chave)
			}
		}
		if len(mensagens) != len(referencia) {
			t.Errorf("idioma %s com %d chaves, pt-BR tem %d", idioma, len(mensagens), len(referencia))
		}
	}
}

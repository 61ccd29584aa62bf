package auth

import "testing"

func TestHashEVerify(t *testing.T) {
	hash, err := Hash("segredo-forte")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "segredo-forte" {
		t.Fatal("hash não pode ser a senha em texto plano")
	}

	if !Verify("segredo-forte", hash) {
		t.Error("Verify deveria aceitar a senha correta")
	}
	if Verify("segredo-errado", hash) {
		t.Error("Verify deveria rejeitar senha incorreta")
	}
}

func TestHashSaltPorChamada(t *testing.T) {
	a, err := Hash("mesma-senha")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := Hash("mesma-senha")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a == b {
		t.Error("dois hashes da mesma senha deveriam diferir pelo salt")
	}
}

package slug

import "testing"

func TestMake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Cloud", "cloud"},
		{"DevOps & CI/CD", "devops-ci-cd"},
		{"  Infrastructure as Code  ", "infrastructure-as-code"},
		{"Déploiement Continu", "deploiement-continu"},
		{"k8s--operators", "k8s-operators"},
		{"---", ""},
		{"", ""},
		{"Go 1.26", "go-1-26"},
	}
	for _, tc := range tests {
		if got := Make(tc.in); got != tc.want {
			t.Fatalf("Make(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMakeIsIdempotent(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"Cloud Native", "Déploiement continu", "--a--b--", "v2.0 API"} {
		once := Make(in)
		if twice := Make(once); twice != once {
			t.Fatalf("Make(Make(%q)) = %q, want %q", in, twice, once)
		}
	}
}

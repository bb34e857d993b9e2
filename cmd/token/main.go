// token emite un JWT de desarrollo firmado con JWT_SECRET.
//
// Uso: go run ./cmd/token -user <uuid> -role bodeguero
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/jwt"
)

func main() {
	user := flag.String("user", uuid.NewString(), "user_id del token")
	role := flag.String("role", "admin", "admin | bodeguero | vendedor")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, *user, *role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generar token:", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}

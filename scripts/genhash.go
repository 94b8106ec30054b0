// One-off: go run scripts/genhash.go [-cost 10] <password>
// Prints a password_hash value for seeding the users table by hand.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/aamishhussain23/finacplus-assignment/internal/auth"
	"github.com/aamishhussain23/finacplus-assignment/internal/validate"
)

func main() {
	cost := flag.Int("cost", 10, "bcrypt cost")
	flag.Parse()

	password := flag.Arg(0)
	if !validate.StrongPassword(password) {
		fmt.Fprintln(os.Stderr, "password must be at least 10 characters with letters and numbers")
		os.Exit(2)
	}
	h, err := auth.NewPasswordHasher(*cost).Hash(password)
	if err != nil {
		panic(err)
	}
	fmt.Print(h)
}

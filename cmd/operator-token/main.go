// Command operator-token prints a signed operator JWT for the operator routes.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/AldairAG/PayGlobal/config"
	"github.com/AldairAG/PayGlobal/internal/auth"
)

func main() {
	name := flag.String("operator", "", "operator name recorded in the token subject")
	flag.Parse()
	if *name == "" {
		log.Fatal("-operator is required")
	}

	cfg := config.Load()
	token, err := auth.GenerateOperatorToken(&cfg.Auth, *name)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println(token)
}

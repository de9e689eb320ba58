package main

import (
	"fmt"

	echoapi "github.com/trezcool/masomo-records/apps/api/echo"
	"github.com/trezcool/masomo-records/core"
)

// token prints a signed access token for id, the way the auth service would issue it.
func (cli *commandLine) token(id core.Identity) error {
	for _, r := range id.Roles {
		if r != core.RoleStaff && r != core.RoleAdmin {
			return fmt.Errorf("%q: unknown role", r)
		}
	}
	tkn, err := echoapi.GenerateToken(cli.conf, echoapi.NewClaims(cli.conf, id))
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, tkn)
	return nil
}

package main

import (
	"time"

	"github.com/sekolahku/pembiasaan/core"
	"github.com/sekolahku/pembiasaan/core/account"
)

// addAdmin creates an admin account, or promotes an existing account and
// resets its password.
func (cli *commandLine) addAdmin(uname, name, pwd string) error {
	uname = core.CleanString(uname, true /* lower */)
	name = core.CleanString(name)
	if name == "" {
		name = uname
	}

	acct, err := cli.acctRepo.GetAccountByUsername(uname)
	if err != nil {
		if err != account.ErrNotFound {
			return err
		}
		acct = account.Account{
			Name:      name,
			Username:  uname,
			CreatedAt: time.Now().UTC(),
		}
	}
	acct.Role = account.RoleAdmin
	acct.UpdatedAt = time.Now().UTC()
	if err = acct.SetPassword(pwd); err != nil {
		return err
	}

	if acct.ID == "" {
		_, err = cli.acctRepo.CreateAccount(acct)
	} else {
		_, err = cli.acctRepo.UpdateAccount(acct)
	}
	return err
}

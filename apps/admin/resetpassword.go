package main

import (
	"github.com/sekolahku/pembiasaan/core"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	acct, err := cli.acctRepo.GetAccountByUsername(core.CleanString(uname, true /* lower */))
	if err != nil {
		return err
	}
	if err = acct.SetPassword(pwd); err != nil {
		return err
	}
	_, err = cli.acctRepo.UpdateAccount(acct)
	return err
}

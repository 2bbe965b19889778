package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

var codeRe = regexp.MustCompile(`^[0-9]{4,8}$`)

// promptTwoFactorCode asks for the SMS-delivered verification code.
func promptTwoFactorCode(maskedPhone string) (string, error) {
	var code string
	prompt := &survey.Input{
		Message: fmt.Sprintf("2FA code sent to %s, enter it:", maskedPhone),
		Help:    "Public.com sends a numeric verification code to your registered phone number",
	}
	err := survey.AskOne(prompt, &code, survey.WithValidator(func(val interface{}) error {
		str := strings.TrimSpace(val.(string))
		if !codeRe.MatchString(str) {
			return fmt.Errorf("the code is a 4-8 digit number")
		}
		return nil
	}))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(code), nil
}

// confirmOrder double-checks before committing real money.
func confirmOrder(symbol, side, qty string, all bool) (bool, error) {
	amount := qty
	if all {
		amount = "ALL"
	}
	var ok bool
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Submit %s %s %s?", strings.ToUpper(side), amount, strings.ToUpper(symbol)),
	}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

package utils

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ttacon/chalk"
	bettererrors "github.com/xtuc/better-errors"
	bettererrorstree "github.com/xtuc/better-errors/printer/tree"
)

// Version is overridden at link time (-ldflags "-X .../common/utils.Version=...").
var Version = "dev"

func GetVersion() string {
	return Version
}

func Check(err error, msg string) {
	if err != nil {
		fmt.Print(chalk.Red)
		log.Print(msg, chalk.Reset)
		log.Panicln(err)
	}
}

func Assert(ok bool, msg string) {
	if !ok {
		fmt.Print(chalk.Red)
		log.Print(msg, chalk.Reset)
		log.Panic()
	}
}

// FailWith prints the error chain of a command and exits.
func FailWith(err error) {
	if !bettererrors.IsBetterError(err) {
		err = bettererrors.NewFromErr(err)
	}

	command := strings.Join(os.Args, " ")

	berror := bettererrors.
		New(command).
		SetContext("version", GetVersion()).
		With(err)

	fmt.Println("")
	fmt.Println(chalk.Red.Color("❌  An error occurred."))
	fmt.Println("")

	fmt.Print(bettererrorstree.PrintChain(berror))

	fmt.Println("")

	os.Exit(1)
}

func WarnWith(err error) {
	if bettererrors.IsBetterError(err) {
		msg := bettererrorstree.PrintChain(err.(*bettererrors.Chain))

		fmt.Println("")
		fmt.Println(chalk.Yellow.Color("⚠️  Warning"))
		fmt.Println("")

		fmt.Print(msg)

		fmt.Println("")
	} else {
		fmt.Println(chalk.Yellow.Color(err.Error()))
	}
}

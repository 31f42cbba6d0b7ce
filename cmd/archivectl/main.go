// archivectl 在 JSON 与自描述归档格式之间转换记录流。
//
//	archivectl encode  < values.jsonl > records.bin
//	archivectl decode  < records.bin
//	archivectl inspect < records.bin
//	archivectl version
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	_ "go.uber.org/automaxprocs"

	"github.com/lk2023060901/struct-archiver-go/application"
	"github.com/lk2023060901/struct-archiver-go/pkg/util/merr"
)

const usage = `usage: archivectl <command> [flags]

commands:
  encode    read JSON values from stdin, write length-prefixed archive records
  decode    read archive records from stdin, write one JSON value per line
  inspect   read archive records from stdin, print their structure
  version   print the build version

exit status is 1 for malformed input, 2 for usage errors and 3 otherwise.

flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	command, args := args[0], args[1:]
	if command == "version" {
		v, err := application.BuildVersion()
		if err != nil {
			fmt.Fprintf(stderr, "archivectl: invalid build version %q: %v\n", application.Version, err)
			return 1
		}
		fmt.Fprintln(stdout, v.String())
		return 0
	}

	cmd, ok := commands[command]
	if !ok {
		fmt.Fprintf(stderr, "archivectl: unknown command %q\n", command)
		fmt.Fprint(stderr, usage)
		return 2
	}

	var (
		configPath string
		raw        bool
	)
	flagSet := pflag.NewFlagSet("archivectl "+command, pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&configPath, "config", "", "path to config file (default ./archiver.yaml or $"+application.EnvConfigPath+")")
	flagSet.BoolVar(&raw, "raw", false, "treat stdin/stdout as a single unframed record")
	flagSet.Usage = func() {
		fmt.Fprint(stderr, usage)
		flagSet.PrintDefaults()
	}
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	app := application.New(application.WithConfigPath(configPath))
	if err := app.Run(); err != nil {
		fmt.Fprintf(stderr, "archivectl: %v\n", err)
		return exitCode(err)
	}
	defer app.Close()

	if err := cmd(app, stdin, stdout, raw); err != nil {
		fmt.Fprintf(stderr, "archivectl %s: %v\n", command, err)
		return exitCode(err)
	}
	return 0
}

// exitCode 区分输入数据错误（1）与其他失败（3）。
func exitCode(err error) int {
	if merr.GetErrorType(err) == merr.InputError {
		return 1
	}
	return 3
}

package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	docopt "github.com/docopt/docopt-go"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"github.com/masamoto1982/lycoris"
)

var usage = `Lycoris, a concatenative language with exact rational arithmetic.

Usage: lycoris [options] [<script>...]

Options:
  --timeout=<dur>  wall-clock limit per execution [default: 60s]
  --trace          log evaluator execution
  -h --help        show this help
`

type config struct {
	Timeout string   `docopt:"--timeout"`
	Trace   bool     `docopt:"--trace"`
	Scripts []string `docopt:"<script>"`
}

func main() {
	opts, err := docopt.ParseDoc(usage)
	if err != nil {
		panic(err.Error())
	}
	var cfg config
	if err := opts.Bind(&cfg); err != nil {
		panic(err.Error())
	}

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lycoris: bad --timeout: %v\n", err)
		os.Exit(2)
	}

	var evalOpts []lycoris.Option
	if cfg.Trace {
		evalOpts = append(evalOpts, lycoris.WithLogf(log.Printf))
	}
	session := lycoris.NewSession(timeout, evalOpts...)

	if len(cfg.Scripts) > 0 {
		os.Exit(runScripts(session, cfg.Scripts))
	}
	if isatty.IsTerminal(os.Stdin.Fd()) {
		repl(session)
		return
	}
	os.Exit(runStdin(session))
}

func runScripts(session *lycoris.Session, scripts []string) int {
	for i, path := range scripts {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lycoris: %v\n", err)
			return 1
		}
		res := session.Do(lycoris.Request{ID: fmt.Sprintf("script-%d", i), Source: string(src)})
		os.Stdout.WriteString(res.Output)
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "lycoris: %s: %v\n", path, res.Err)
			return 1
		}
	}
	return 0
}

func runStdin(session *lycoris.Session) int {
	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lycoris: %v\n", err)
		return 1
	}
	res := session.Do(lycoris.Request{ID: "stdin", Source: string(src)})
	os.Stdout.WriteString(res.Output)
	if res.Err != nil {
		fmt.Fprintf(os.Stderr, "lycoris: %v\n", res.Err)
		return 1
	}
	return 0
}

func repl(session *lycoris.Session) {
	cli := liner.NewLiner()
	defer cli.Close()
	cli.SetCtrlCAborts(true)

	printed := 0
	for n := 0; ; n++ {
		line, err := cli.Prompt("> ")
		switch err {
		case nil:
			cli.AppendHistory(line)
		case liner.ErrPromptAborted:
			continue
		default:
			fmt.Println()
			return
		}

		res := session.Do(lycoris.Request{ID: fmt.Sprintf("repl-%d", n), Source: line})
		if printed > len(res.Output) {
			printed = 0 // clear shrank the buffer
		}
		os.Stdout.WriteString(res.Output[printed:])
		printed = len(res.Output)
		if res.Err != nil && res.Output == "" {
			fmt.Printf("%v\n", res.Err)
		}
		fmt.Printf("-- %s\n", strings.Join(session.Stack(), " "))
	}
}

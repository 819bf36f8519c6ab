package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/peterh/liner"
)

func main() {
	log.SetFlags(0)
	var (
		confname, verb, sessname string
		prec                     int
		ext                      bool
	)
	flag.StringVar(&confname, "config", defaultConfigFile(), "TOML configuration file")
	flag.StringVar(&verb, "fmt", "", "result formatting string (default from config, or %g)")
	flag.IntVar(&prec, "p", 0, "precision of calculations in bits (default from config, or 64)")
	flag.BoolVar(&ext, "x", false, "enable extended operators exp, ln, and ^")
	flag.StringVar(&sessname, "session", "", "session file to load on start")
	flag.Parse()
	if prec < 0 {
		log.Fatalf("precision (%d) must be positive", prec)
	}

	conf, err := loadConfig(confname)
	if err != nil {
		log.Fatal(err)
	}
	if prec > 0 {
		conf.Precision = uint(prec)
	}
	if verb != "" {
		conf.Format = verb
	}
	conf.Extended = conf.Extended || ext
	if err := conf.check(); err != nil {
		log.Fatal(err)
	}

	s := newSession(conf, os.Stdout)
	if sessname != "" {
		if err := s.load(sessname); err != nil {
			log.Fatal(err)
		}
		s.show()
	}

	// Arguments are lines of input, run without prompting.
	if flag.NArg() > 0 {
		for _, arg := range flag.Args() {
			if _, err := s.exec(arg); err != nil {
				log.Fatal(err)
			}
		}
		return
	}
	if !liner.TerminalSupported() {
		if err := script(s, os.Stdin); err != nil {
			log.Fatal(err)
		}
		return
	}
	repl(s, conf.History)
}

// script runs lines from a non-terminal input. Errors in lines are reported
// but do not stop the script.
func script(s *session, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		quit, err := s.exec(sc.Text())
		if err != nil {
			log.Print(err)
		}
		if quit {
			return nil
		}
	}
	return sc.Err()
}

func repl(s *session, histname string) {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(s.complete)

	if histname != "" {
		if f, err := os.Open(histname); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
		defer func() {
			f, err := os.Create(histname)
			if err != nil {
				log.Print(err)
				return
			}
			if _, err := ln.WriteHistory(f); err != nil {
				log.Print(err)
			}
			f.Close()
		}()
	}

	fmt.Println(`rpn calculator. Type :help for help, :quit or Ctrl+D to exit.`)
	for {
		line, err := ln.Prompt("> ")
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return
		}
		if err != nil {
			log.Print(err)
			return
		}
		if line == "" {
			continue
		}
		ln.AppendHistory(line)
		quit, err := s.exec(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		if quit {
			return
		}
	}
}

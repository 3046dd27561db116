package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

type AppFlags struct {
	URL              string
	URLFile          string
	GlobalConfigFile string
	StrategyID       string
	ResolveOnly      bool
	Preview          bool
}

func ParseFlags(args []string, output io.Writer) (AppFlags, error) {
	fs := flag.NewFlagSet("linkcleaner", flag.ContinueOnError)
	fs.SetOutput(output)

	urlFlag := fs.String("url", "", "URL to clean. May also be given as the first positional argument.")
	urlFlagAlias := fs.String("u", "", "Alias for -url")

	urlFile := fs.String("file", "", "Path to a text file with one URL per line. Results are written as JSON lines.")
	urlFileAlias := fs.String("f", "", "Alias for -file")

	globalConfigFile := fs.String("config", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := fs.String("c", "", "Alias for -config")

	strategyID := fs.String("strategy", "", "Force a strategy id instead of matching on the hostname")
	strategyIDAlias := fs.String("s", "", "Alias for -strategy")

	resolveOnly := fs.Bool("resolve", false, "Only follow redirects and print the redirect chain")
	preview := fs.Bool("preview", false, "Preview the clean result without applying it anywhere")

	if err := fs.Parse(args); err != nil {
		return AppFlags{}, err
	}

	flags := AppFlags{
		URL:              firstNonEmpty(*urlFlag, *urlFlagAlias, fs.Arg(0)),
		URLFile:          firstNonEmpty(*urlFile, *urlFileAlias),
		GlobalConfigFile: firstNonEmpty(*globalConfigFile, *globalConfigFileAlias),
		StrategyID:       firstNonEmpty(*strategyID, *strategyIDAlias),
		ResolveOnly:      *resolveOnly,
		Preview:          *preview,
	}

	switch {
	case flags.URL == "" && flags.URLFile == "":
		return flags, errors.New("a URL (-url or positional) or -file is required")
	case flags.URL != "" && flags.URLFile != "":
		return flags, errors.New("-url and -file are mutually exclusive")
	case flags.ResolveOnly && flags.URLFile != "":
		return flags, fmt.Errorf("-resolve works on a single URL, not on -file")
	}
	return flags, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

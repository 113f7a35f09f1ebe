package main

import (
	"strconv"
	"strings"
)

// flagValue returns the value following the first of names in args, or "".
func flagValue(args []string, names ...string) string {
	for i, a := range args {
		for _, n := range names {
			if a == n && i+1 < len(args) {
				return args[i+1]
			}
		}
	}
	return ""
}

// flagValues returns the value after every occurrence of name.
func flagValues(args []string, name string) []string {
	var vals []string
	for i, a := range args {
		if a == name && i+1 < len(args) {
			vals = append(vals, args[i+1])
		}
	}
	return vals
}

func hasFlag(args []string, names ...string) bool {
	for _, a := range args {
		for _, n := range names {
			if a == n {
				return true
			}
		}
	}
	return false
}

// intFlag parses the value of name, returning def when the flag is absent.
func intFlag(args []string, name string, def int) (int, error) {
	v := flagValue(args, name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

// flagSet lists the flags a command accepts. Value flags consume the next arg.
type flagSet struct {
	bools  []string
	values []string
}

// parse splits args into positional arguments and returns the first flag
// the command does not know, if any.
func (s flagSet) parse(args []string) (positional []string, unknown string) {
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case contains(s.values, a):
			i++
		case contains(s.bools, a):
		case strings.HasPrefix(a, "-") && a != "-":
			if unknown == "" {
				unknown = a
			}
		default:
			positional = append(positional, a)
		}
	}
	return positional, unknown
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

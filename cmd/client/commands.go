package main

import (
	"errors"
	"strings"
)

// chatClient is the part of client.Client the console drives.
type chatClient interface {
	Login(username string) error
	SendPublic(text string) error
	SendPrivate(recipient, text string) error
	RequestUserList() error
	RequestSupportedCommands() error
}

var errUnknownCommand = errors.New("unknown command, try /help")

type usageError string

func (u usageError) Error() string {
	return "usage: " + string(u)
}

// execute runs one line typed by the user. Lines starting with a slash are
// console commands; anything else is a public message. It reports whether
// the user asked to quit.
func execute(c chatClient, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	if !strings.HasPrefix(line, "/") {
		return false, c.SendPublic(line)
	}

	name, rest, _ := strings.Cut(line[1:], " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "quit", "exit":
		return true, nil
	case "login":
		if rest == "" {
			return false, usageError("/login <username>")
		}
		return false, c.Login(rest)
	case "users":
		return false, c.RequestUserList()
	case "help":
		return false, c.RequestSupportedCommands()
	case "privmsg", "w":
		recipient, text, ok := strings.Cut(rest, " ")
		text = strings.TrimSpace(text)
		if !ok || recipient == "" || text == "" {
			return false, usageError("/privmsg <recipient> <text>")
		}
		return false, c.SendPrivate(recipient, text)
	default:
		return false, errUnknownCommand
	}
}

package domain

import (
	"fmt"
	"regexp"
)

// DefaultPromptPattern matches an idle bash prompt at the end of a stdout
// payload, e.g. "bash-5.1$ ". The trailing space is part of the prompt.
const DefaultPromptPattern = `(?m)bash-[\d.]+\$ $`

// DefaultCommands installs the Studio auto-shutdown extension, the setup
// this tool was built to automate.
var DefaultCommands = []string{
	"git clone https://github.com/aws-samples/sagemaker-studio-auto-shutdown-extension.git",
	"pwd && ls",
	"cd sagemaker-studio-auto-shutdown-extension && ./install_tarball.sh",
}

// Script is the ordered command sequence driven through the remote shell,
// together with the prompt matcher that signals each command's completion.
type Script struct {
	Commands []string
	prompt   *regexp.Regexp
}

// NewScript compiles the prompt pattern and validates the command list.
func NewScript(commands []string, promptPattern string) (Script, error) {
	if len(commands) == 0 {
		return Script{}, fmt.Errorf("%w: script has no commands", ErrConfiguration)
	}
	if promptPattern == "" {
		promptPattern = DefaultPromptPattern
	}

	prompt, err := regexp.Compile(promptPattern)
	if err != nil {
		return Script{}, fmt.Errorf("%w: compile prompt pattern %q: %v", ErrConfiguration, promptPattern, err)
	}

	return Script{Commands: commands, prompt: prompt}, nil
}

// DefaultScript returns the built-in install script.
func DefaultScript() Script {
	script, err := NewScript(DefaultCommands, DefaultPromptPattern)
	if err != nil {
		panic(err)
	}
	return script
}

// PromptReady reports whether the payload shows the shell back at an idle
// prompt, scanning all lines of the payload.
func (s Script) PromptReady(payload string) bool {
	return s.prompt.MatchString(payload)
}

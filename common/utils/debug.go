package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

type Context map[string]interface{}

type Message struct {
	Time    string  `json:"time"`
	Service string  `json:"service"`
	Message string  `json:"message"`
	Context Context `json:"context"`
}

var debugOutput io.Writer = os.Stdout

// SetDebugOutput redirects Debug lines; nil restores stdout.
func SetDebugOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	debugOutput = w
}

func Debug(service string, message string) {
	DebugWith(service, message, nil)
}

// DebugWith prints one JSON line; extra keys are merged into the context next to the hostname.
func DebugWith(service string, message string, extra Context) {
	context := make(Context, len(extra)+1)

	if hostname, err := os.Hostname(); err == nil {
		context["hostname"] = hostname
	}

	for k, v := range extra {
		context[k] = v
	}

	messageStruct := Message{
		Time:    time.Now().Format(time.RFC3339),
		Service: service,
		Message: message,
		Context: context,
	}

	data, _ := json.Marshal(messageStruct)

	fmt.Fprintln(debugOutput, string(data))
}

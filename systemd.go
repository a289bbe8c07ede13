package main

import (
	_ "embed"
	"os"
	"text/template"
)

//go:embed hatchctl.service
var hatchctlServiceEmbed string

type HatchctlServiceParams struct {
	BinaryPath string
	User       string
}

func SystemdServiceFile() {
	tmpl := template.New("hatchctl.service")
	tmpl, err := tmpl.Parse(hatchctlServiceEmbed)
	if err != nil {
		panic(err)
	}

	path, err := os.Executable()
	if err != nil {
		panic(err)
	}

	params := HatchctlServiceParams{
		BinaryPath: path,
		User:       "pi",
	}

	err = tmpl.Execute(os.Stdout, params)
	if err != nil {
		panic(err)
	}
}

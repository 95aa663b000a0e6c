// Command formbridge-setup interactively writes the formbridge config file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"

	"github.com/formbridge/formbridge/internal/config"
	"github.com/formbridge/formbridge/pkg/gforms"
)

func main() {
	output := flag.String("output", "", "config file to write (defaults to "+config.DefaultPath()+")")
	skipTest := flag.Bool("skip-test", false, "skip the connection test before writing")
	flag.Parse()

	log.SetPrefix("formbridge-setup: ")
	log.SetFlags(0)

	cfg, err := ask()
	if err != nil {
		log.Fatal(err)
	}

	if !*skipTest {
		if err := testConnection(cfg); err != nil {
			log.Printf("connection test failed: %v", err)
			retry := false
			prompt := &survey.Confirm{Message: "Write the config anyway?"}
			if err := survey.AskOne(prompt, &retry); err != nil || !retry {
				os.Exit(1)
			}
		} else {
			fmt.Println("Connection OK.")
		}
	}

	path := *output
	if path == "" {
		path = config.DefaultPath()
	}
	if err := config.Write(path, cfg); err != nil {
		log.Fatalf("write config: %v", err)
	}
	fmt.Printf("Wrote %s\n", path)
}

func ask() (*config.Config, error) {
	questions := []*survey.Question{
		{
			Name: "baseURL",
			Prompt: &survey.Input{
				Message: "Site URL:",
				Help:    "The WordPress site root, e.g. https://example.com",
			},
			Validate: survey.ComposeValidators(survey.Required, validURL),
		},
		{
			Name:     "consumerKey",
			Prompt:   &survey.Input{Message: "API consumer key:"},
			Validate: survey.Required,
		},
		{
			Name:     "consumerSecret",
			Prompt:   &survey.Password{Message: "API consumer secret:"},
			Validate: survey.Required,
		},
	}

	answers := struct {
		BaseURL        string
		ConsumerKey    string
		ConsumerSecret string
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return nil, err
	}

	return &config.Config{
		BaseURL:        strings.TrimRight(strings.TrimSpace(answers.BaseURL), "/"),
		ConsumerKey:    strings.TrimSpace(answers.ConsumerKey),
		ConsumerSecret: answers.ConsumerSecret,
	}, nil
}

func validURL(val any) error {
	s, _ := val.(string)
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return fmt.Errorf("must start with http:// or https://")
	}
	return nil
}

func testConnection(cfg *config.Config) error {
	client, err := gforms.New(cfg.BaseURL, cfg.ConsumerKey, cfg.ConsumerSecret,
		gforms.WithTimeout(10*time.Second))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	forms, err := client.ListForms(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Found %d form(s).\n", len(forms))
	return nil
}

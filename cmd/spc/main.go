package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/BTBurke/spc"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	// optional .env with ROLLBAR_TOKEN and environment
	godotenv.Load()

	opts, err := spc.ParseCommandLine()
	if err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Printf("Could not parse configuration: %s\n\nUse spc --help for options\n", err)
		}
		os.Exit(1)
	}

	a, errs := spc.New(opts...)
	if len(errs) > 0 {
		fmt.Println("Error in config:")
		for _, e := range errs {
			fmt.Println(e)
		}
		os.Exit(1)
	}

	series, limits, err := a.Inputs()
	if err != nil {
		fmt.Println("Input error:", err)
		os.Exit(1)
	}

	result, err := a.Run(series, limits)
	if err != nil {
		fmt.Println("Analysis error:", err)
		os.Exit(1)
	}

	if err := a.Write(os.Stdout, result); err != nil {
		a.ReportError(err)
		a.Wait()
		fmt.Println("Output error:", err)
		os.Exit(1)
	}

	if err := a.Publish(result); err != nil {
		a.Wait()
		fmt.Printf("Result not published: %s\n", err)
		os.Exit(1)
	}

	a.Wait()
	os.Exit(0)
}

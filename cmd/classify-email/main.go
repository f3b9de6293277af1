package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/montimage/email-domain-classifier/internal/core"
	"github.com/montimage/email-domain-classifier/internal/di"
)

func main() {
	flags := di.ParseCLIFlags()

	// Build the dependency injection container
	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	flags *di.CLIFlags,
	logger *zap.Logger,
	validator *core.Validator,
	classifier *core.Classifier,
) error {
	defer logger.Sync()

	body := flags.Body
	if flags.BodyFile != "" {
		content, err := readBody(flags.BodyFile)
		if err != nil {
			logger.Fatal("Failed to read email body", zap.Error(err), zap.String("file", flags.BodyFile))
		}
		body = content
	}

	record := &core.EmailRecord{
		Sender:   flags.Sender,
		Receiver: flags.Receiver,
		Subject:  flags.Subject,
		Body:     body,
		HasURL:   flags.HasURL,
	}

	// Print email summary
	fmt.Printf("\n=== Email Summary ===\n")
	fmt.Printf("From: %s\n", record.Sender)
	fmt.Printf("To: %s\n", record.Receiver)
	fmt.Printf("Subject: %s\n", record.Subject)
	fmt.Printf("Body length: %d bytes\n", len(record.Body))
	fmt.Printf("\n")

	if err := validator.Validate(record); err != nil {
		fmt.Printf("=== Results ===\n")
		fmt.Printf("Record is invalid: %s\n", err)
		os.Exit(1)
	}

	startTime := time.Now()
	result := classifier.Classify(context.Background(), record)
	duration := time.Since(startTime)

	// Print results
	fmt.Printf("=== Results ===\n")
	fmt.Printf("Assigned domain: %s\n", result.AssignedDomain)
	fmt.Printf("Method 1 (keywords):  domain=%s confidence=%.4f\n", orNone(result.Method1Domain), result.Method1Score)
	fmt.Printf("Method 2 (structure): domain=%s confidence=%.4f\n", orNone(result.Method2Domain), result.Method2Score)
	fmt.Printf("Agreement: %t\n", result.Agreement)
	fmt.Printf("Combined score: %.4f\n", result.CombinedScore)
	fmt.Printf("Processing time: %v\n", duration)

	return nil
}

// readBody reads the email body from a file, or stdin when the path is "-".
func readBody(path string) (string, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func orNone(domain string) string {
	if domain == "" {
		return "none"
	}
	return domain
}

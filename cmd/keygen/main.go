// Command keygen generates a 32-character at-rest encryption key and writes
// it into a .env file. The key encrypts every document in the vault: keep it
// secure and consistent, because changing it makes existing encrypted
// documents inaccessible.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
)

func main() {
	envPath := flag.String("env", ".env", "path to the .env file to update")
	printOnly := flag.Bool("print", false, "print the key without touching any file")
	flag.Parse()

	key, err := generateKey()
	if err != nil {
		log.Fatalf("failed to generate key: %v", err)
	}

	fmt.Println("=== Encryption Key Generator ===")
	fmt.Printf("Generated key: %s\n", key)

	if *printOnly {
		return
	}

	if err := updateEnvFile(*envPath, key); err != nil {
		fmt.Printf("Failed to update %s: %v\n", *envPath, err)
		fmt.Printf("Please add the key manually:\n\nENCRYPTION_KEY=%s\n", key)
		os.Exit(1)
	}

	fmt.Printf("%s updated with the new encryption key.\n", *envPath)
	fmt.Println("Note: changing this key will make existing encrypted documents inaccessible.")
}

// generateKey returns 16 random bytes hex-encoded: exactly the 32 characters
// the key provider requires.
func generateKey() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

var keyLine = regexp.MustCompile(`(?m)^ENCRYPTION_KEY=.*$`)

// updateEnvFile replaces an existing ENCRYPTION_KEY line or appends one,
// preserving everything else in the file.
func updateEnvFile(path, key string) error {
	content := ""
	if data, err := os.ReadFile(path); err == nil {
		content = string(data)
	} else if !os.IsNotExist(err) {
		return err
	}

	line := "ENCRYPTION_KEY=" + key
	if keyLine.MatchString(content) {
		content = keyLine.ReplaceAllString(content, line)
	} else {
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		content += line + "\n"
	}

	return os.WriteFile(path, []byte(content), 0o600)
}

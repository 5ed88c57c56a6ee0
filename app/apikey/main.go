package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Natenyt/AI-Powered-Government-System/internal/logger"
	"github.com/Natenyt/AI-Powered-Government-System/internal/utils"
)

// Prints the SERVICE_API_KEY_HASH value for a key read from -key or stdin.
func main() {
	key := flag.String("key", "", "plain API key (read from stdin when empty)")
	flag.Parse()

	l := logger.New()
	if *key == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			l.WithError(err).Fatal("read key")
		}
		*key = strings.TrimSpace(line)
	}
	if *key == "" {
		l.Fatal("empty key")
	}

	hash, err := utils.HashAPIKey(*key)
	if err != nil {
		l.WithError(err).Fatal("hash key")
	}
	fmt.Println(hash)
}

package wordlist

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/zansec/ftpzan/pkg/probe"
)

// DefaultUsernames is the fallback dictionary used when no username and
// no user list is supplied in brute-force mode.
var DefaultUsernames = []string{"anonymous", "ftp", "admin", "root", "guest"}

// DefaultPasswords is the fallback password dictionary. The empty string
// is deliberate: blank passwords are a valid candidate.
var DefaultPasswords = []string{"anonymous", "ftp", "admin", "root", "guest", "123456", "password", ""}

// ReadLines loads a wordlist file: one candidate per line, blank lines
// and #-comment lines skipped.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open wordlist %s", path)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "could not read wordlist %s", path)
	}
	return lines, nil
}

// ParseCombos splits user:pass combo lines. Only the first colon
// separates, so passwords may contain colons; lines without one are
// skipped.
func ParseCombos(lines []string) []probe.Combo {
	var combos []probe.Combo
	for _, line := range lines {
		user, pass, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		combos = append(combos, probe.Combo{
			Username: strings.TrimSpace(user),
			Password: strings.TrimSpace(pass),
		})
	}
	return combos
}

// ParsePorts accepts either a wordlist file path or a comma-separated
// list of port numbers.
func ParsePorts(arg string) ([]int, error) {
	var fields []string
	if _, err := os.Stat(arg); err == nil {
		lines, err := ReadLines(arg)
		if err != nil {
			return nil, err
		}
		fields = lines
	} else {
		fields = strings.Split(arg, ",")
	}

	var ports []int
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		port, err := strconv.Atoi(field)
		if err != nil || port < 1 || port > 65535 {
			return nil, errors.Errorf("invalid port %q in port list", field)
		}
		ports = append(ports, port)
	}
	if len(ports) == 0 {
		return nil, errors.New("empty port list")
	}
	return ports, nil
}

// Dedupe removes repeated candidates while preserving first-seen order.
func Dedupe(list []string) []string {
	seen := make(map[string]bool)
	result := []string{}
	for _, item := range list {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}

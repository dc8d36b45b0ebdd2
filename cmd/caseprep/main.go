// Command caseprep materializes simulation case directories inside a campaign
// working directory: for each case name it creates the directory, copies the
// initial condition, and rewrites the input deck template with the case's
// parameters. Cases can be given as arguments or read from a config file.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sara-nl/spparks-hpc/internal/deck"
	"github.com/sara-nl/spparks-hpc/internal/fsutil"
)

func main() {
	workDir := flag.String("workdir", ".", "Campaign working directory holding the deck template and initial condition")
	configFile := flag.String("config", "", "Config file listing case names, one per line")
	flag.Parse()

	names := flag.Args()
	if *configFile != "" {
		fromFile, err := readConfig(*configFile)
		if err != nil {
			log.Fatalf("[caseprep] %v", err)
		}
		names = append(names, fromFile...)
	}
	if len(names) == 0 {
		fmt.Fprintln(os.Stderr, "caseprep: no case names given (use -config or arguments)")
		flag.Usage()
		os.Exit(1)
	}

	fsys := fsutil.OSFileSystem{}
	var created, skipped int
	for _, name := range names {
		ok, err := deck.Materialize(fsys, *workDir, name)
		if err != nil {
			log.Fatalf("[caseprep] %s: %v", name, err)
		}
		if ok {
			created++
		} else {
			skipped++
		}
	}
	log.Printf("[caseprep] %d case(s) created, %d already present", created, skipped)
}

// readConfig reads case names from a chunked config file. Names are
// tab-terminated, one per line.
func readConfig(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var names []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		name := strings.TrimSpace(sc.Text())
		if name != "" {
			names = append(names, name)
		}
	}
	return names, sc.Err()
}

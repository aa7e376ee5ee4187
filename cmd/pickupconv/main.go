// pickupconv converts pickup.sql INSERT statements to pickup_list.yaml.
//
// Usage:
//
//	go run ./cmd/pickupconv <pickup.sql> <output.yaml>
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/l1jgo/dropsim/internal/data"
	"gopkg.in/yaml.v3"
)

// Pattern: INSERT INTO `pickup` VALUES ('gem_small', 'gem_blue', '1', '0', '1', '60');
var insertRe = regexp.MustCompile(`VALUES\s*\(\s*'([a-z_]+)'\s*,\s*'([^']*)'\s*,\s*'([01])'\s*,\s*'(-?\d+)'\s*,\s*'(-?[\d.]+)'\s*,\s*'(-?\d+)'\s*\)`)

type pickupList struct {
	Pickups []data.PickupDescriptor `yaml:"pickups"`
}

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: pickupconv <pickup.sql> <output.yaml>")
		os.Exit(1)
	}

	inFile, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer inFile.Close()

	pickups, skipped, err := parseDump(inFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	out, err := os.Create(os.Args[2])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeList(out, pickups); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d pickup entries to %s (%d skipped)\n", len(pickups), os.Args[2], skipped)
}

// parseDump collects one descriptor per category. Later rows for the same
// category replace earlier ones, matching how the dump is replayed.
func parseDump(r io.Reader) ([]data.PickupDescriptor, int, error) {
	byCat := make(map[data.Category]data.PickupDescriptor)
	skipped := 0

	scanner := bufio.NewScanner(r)
	buf := make([]byte, 1024*1024)
	scanner.Buffer(buf, len(buf))

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "INSERT INTO") {
			continue
		}
		m := insertRe.FindStringSubmatch(line)
		if m == nil {
			skipped++
			continue
		}
		cat, err := data.ParseCategory(m[1])
		if err != nil {
			skipped++
			continue
		}
		cooldown, _ := strconv.Atoi(m[4])
		value, _ := strconv.ParseFloat(m[5], 64)
		weight, _ := strconv.Atoi(m[6])
		if cooldown < 0 {
			skipped++
			continue
		}

		byCat[cat] = data.PickupDescriptor{
			Category:         cat,
			Prefab:           m[2],
			AffectedByMagnet: m[3] == "1",
			CooldownMs:       cooldown,
			Value:            value,
			SpawnWeight:      weight,
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("scan: %w", err)
	}

	pickups := make([]data.PickupDescriptor, 0, len(byCat))
	for _, d := range byCat {
		pickups = append(pickups, d)
	}
	sort.Slice(pickups, func(i, j int) bool {
		return pickups[i].Category < pickups[j].Category
	})

	// Same validation the loader applies.
	if _, err := data.NewPickupTable(pickups); err != nil {
		return nil, skipped, err
	}
	return pickups, skipped, nil
}

func writeList(w io.Writer, pickups []data.PickupDescriptor) error {
	fmt.Fprintf(w, "# Pickup list, auto-generated from pickup.sql (%d entries)\n", len(pickups))
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(pickupList{Pickups: pickups}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

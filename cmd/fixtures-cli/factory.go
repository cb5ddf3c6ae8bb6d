package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/goliatone/go-fixtures/pkg/fixture"
)

// printFactory materializes fixtures to stdout instead of a backing store,
// so authors can eyeball the resolved graph before wiring a real factory.
type printFactory struct {
	out     io.Writer
	created int
	commits int
}

var _ fixture.Factory = (*printFactory)(nil)

func (f *printFactory) CreateOrUpdate(id fixture.Identifier, data map[string]any) (any, error) {
	f.created++
	fmt.Fprintf(f.out, "create %s %s\n", id, summarize(data))
	return id, nil
}

func (f *printFactory) MaybeConvertValues(_ fixture.Identifier, data map[string]any) (map[string]any, error) {
	return data, nil
}

func (f *printFactory) Commit() error {
	f.commits++
	fmt.Fprintf(f.out, "commit (%d created)\n", f.created)
	return nil
}

func summarize(data map[string]any) string {
	if len(data) == 0 {
		return "{}"
	}
	fields := make([]string, 0, len(data))
	for field := range data {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s=%v", field, data[field]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

package zip

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestZipAndUnzip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	source := filepath.Join(dir, `features.csv`)
	err := os.WriteFile(source, []byte("group_id,wc_mean\ncall1,2.5\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}
	archive, size, status := ZipFiles(ctx, []string{source})
	if status != nil {
		t.Fatal(status)
	}
	if size == 0 {
		t.Fatal(`archive is empty`)
	}
	if filepath.Ext(archive) != `.zip` {
		t.Fatal(`archive name wrong`, archive)
	}
	outDir := filepath.Join(dir, `out`)
	status = Unzip(ctx, archive, outDir)
	if status != nil {
		t.Fatal(status)
	}
	content, err := os.ReadFile(filepath.Join(outDir, `features.csv`))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "group_id,wc_mean\ncall1,2.5\n" {
		t.Fatal(`extracted content wrong`, string(content))
	}
}

func TestZipNoFiles(t *testing.T) {
	ctx := context.Background()
	_, _, status := ZipFiles(ctx, nil)
	if status == nil {
		t.Fatal(`expected error for empty source list`)
	}
}

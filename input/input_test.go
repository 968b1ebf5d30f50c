package input

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestGlob(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	callDir := filepath.Join(dir, `call1`)
	err := os.MkdirAll(callDir, 0755)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(filepath.Join(callDir, `hyp_0.txt`), []byte(``), 0644)
	if err != nil {
		t.Fatal(err)
	}
	files, status := Glob(ctx, filepath.Join(dir, `*`, `*.txt`))
	if status != nil {
		t.Fatal(status)
	}
	if len(files) != 1 {
		t.Fatal(`expected 1 file, got`, len(files))
	}
	if files[0].CallId != `call1` || files[0].FileExt != `.txt` {
		t.Fatal(`file fields wrong`, files[0])
	}
	if files[0].FilePath() != filepath.Join(callDir, `hyp_0.txt`) {
		t.Fatal(`file path wrong`, files[0].FilePath())
	}
}

func TestCallDirs(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	for _, name := range []string{`call2`, `call1`} {
		err := os.MkdirAll(filepath.Join(dir, name), 0755)
		if err != nil {
			t.Fatal(err)
		}
	}
	err := os.WriteFile(filepath.Join(dir, `stray.txt`), []byte(``), 0644)
	if err != nil {
		t.Fatal(err)
	}
	dirs, status := CallDirs(ctx, dir)
	if status != nil {
		t.Fatal(status)
	}
	if len(dirs) != 2 {
		t.Fatal(`expected 2 call dirs, got`, len(dirs))
	}
	ids := SortedCallIds(dirs)
	if ids[0] != `call1` || ids[1] != `call2` {
		t.Fatal(`call ids not sorted`, ids)
	}
}

func TestResolveDataDirLocal(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	resolved, status := ResolveDataDir(ctx, dir)
	if status != nil {
		t.Fatal(status)
	}
	if resolved != dir {
		t.Fatal(`local path should pass through`, resolved)
	}
}

func TestParseS3Path(t *testing.T) {
	ctx := context.Background()
	bucket, key, status := parseS3Path(ctx, `s3://my-bucket/data/calls.zip`)
	if status != nil {
		t.Fatal(status)
	}
	if bucket != `my-bucket` || key != `data/calls.zip` {
		t.Fatal(`parse wrong`, bucket, key)
	}
	_, _, status = parseS3Path(ctx, `s3://nokey`)
	if status == nil {
		t.Fatal(`expected error for missing key`)
	}
}

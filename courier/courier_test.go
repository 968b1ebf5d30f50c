package courier

import (
	"context"
	"testing"
)

const testYaml = `dataset_name: speech_test
username: researcher
level: call
`

func TestNewCourierParsesYaml(t *testing.T) {
	ctx := context.Background()
	c := NewCourier(ctx, []byte(testYaml))
	if c.username != `researcher` {
		t.Fatal(`username wrong`, c.username)
	}
	if c.dataset != `speech_test` {
		t.Fatal(`dataset wrong`, c.dataset)
	}
}

func TestParseYamlMissingKey(t *testing.T) {
	ctx := context.Background()
	c := NewCourier(ctx, []byte(`level: call`))
	if c.username != `unknown-username` {
		t.Fatal(`missing key should yield unknown`, c.username)
	}
}

func TestCreateKey(t *testing.T) {
	ctx := context.Background()
	c := NewCourier(ctx, []byte(testYaml))
	key := c.createKey(3, `output`, `/tmp/features.csv`)
	if key != `researcher/speech_test/00003/output/features.csv` {
		t.Fatal(`key wrong`, key)
	}
}

func TestRecipientFilters(t *testing.T) {
	addresses := []string{`+15550001111`, `researcher@example.edu`, `sqs/queue`}
	p := phones(addresses)
	if len(p) != 1 || p[0] != `+15550001111` {
		t.Fatal(`phones wrong`, p)
	}
	e := emails(addresses)
	if len(e) != 1 || e[0] != `researcher@example.edu` {
		t.Fatal(`emails wrong`, e)
	}
}

func TestGetOutputByExt(t *testing.T) {
	ctx := context.Background()
	c := NewCourier(ctx, []byte(testYaml))
	c.AddOutput(`/tmp/features.csv`)
	c.AddOutput(`/tmp/features.xlsx`)
	csvs := c.GetOutputByExt(`.csv`)
	if len(csvs) != 1 || csvs[0] != `/tmp/features.csv` {
		t.Fatal(`output filter wrong`, csvs)
	}
}

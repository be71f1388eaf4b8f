package transcribe

import (
	"strings"
	"testing"
)

func TestDecodeSegments(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    int
		wantErr bool
	}{
		{"bare array", `[{"start":0,"end":2.5,"text":"Hello"},{"start":2.5,"end":5,"text":"there"}]`, 2, false},
		{"fenced", "```json\n[{\"start\":0,\"end\":1.5,\"text\":\"Fenced\"}]\n```", 1, false},
		{"prose around", "Here is the transcript:\n[{\"start\":1,\"end\":3,\"text\":\"x\"}]\nHope it helps!", 1, false},
		{"wrapped", `{"segments":[{"start":0,"end":2,"text":"w"}]}`, 1, false},
		{"nested wrapper", `{"response":{"items":[{"start":0,"end":1,"text":"n"}]}}`, 1, false},
		{"unrelated object first", `{"status":"ok"} [{"start":0,"end":2,"text":"real"}]`, 1, false},
		{"number array first", `[1,2,3] [{"start":0,"end":2,"text":"real"}]`, 1, false},
		{"timing without text", `[{"start":1,"end":2,"text":""}]`, 1, false},
		{"empty array", `[]`, 0, true},
		{"all zero", `[{"start":0,"end":0,"text":""}]`, 0, true},
		{"prose only", "no speech detected", 0, true},
		{"truncated", `[{"start":0,"end":2,"text":"cut`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, err := decodeSegments(tt.reply)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d segments", len(segments))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(segments) != tt.want {
				t.Errorf("got %d segments, want %d", len(segments), tt.want)
			}
		})
	}
}

func TestDecodeSegmentsConvertsSeconds(t *testing.T) {
	segments, err := decodeSegments(`[{"start":1.25,"end":3.0004,"text":"  padded  "}]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := segments[0]
	if got.Start != 1250 || got.End != 3000 || got.Text != "padded" {
		t.Errorf("unexpected segment %+v", got)
	}
}

func TestDecodeVerbose(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		fallback int64
		want     []string
		wantEnd  int64
		wantErr  bool
	}{
		{
			name: "segments",
			raw: `{"task":"transcribe","language":"english","duration":6.19,"text":"a b",
				"segments":[{"id":0,"start":0.0,"end":3.32,"text":" The stale smell.","tokens":[1,2]},
				{"id":1,"start":3.32,"end":6.19,"text":" It takes heat."}]}`,
			fallback: 10000,
			want:     []string{"The stale smell.", "It takes heat."},
			wantEnd:  6190,
		},
		{
			name:     "blank segments dropped",
			raw:      `{"text":"hi","segments":[{"start":0,"end":0.5,"text":""},{"start":0.5,"end":1.5,"text":"hi"},{"start":1.5,"end":2,"text":"  "}]}`,
			fallback: 5000,
			want:     []string{"hi"},
			wantEnd:  1500,
		},
		{
			name:     "text only uses reported duration",
			raw:      `{"text":"No segments here.","duration":10.5}`,
			fallback: 15000,
			want:     []string{"No segments here."},
			wantEnd:  10500,
		},
		{
			name:     "text only uses fallback",
			raw:      `{"text":"Short.","segments":null}`,
			fallback: 4000,
			want:     []string{"Short."},
			wantEnd:  4000,
		},
		{name: "empty body", raw: "", wantErr: true},
		{name: "broken", raw: `{"text": "incomplete`, wantErr: true},
		{name: "nothing", raw: `{"text":"","segments":[]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, err := decodeVerbose(tt.raw, tt.fallback)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(segments) != len(tt.want) {
				t.Fatalf("got %d segments, want %d", len(segments), len(tt.want))
			}
			for i, text := range tt.want {
				if segments[i].Text != text {
					t.Errorf("segment %d: got %q, want %q", i, segments[i].Text, text)
				}
			}
			if last := segments[len(segments)-1]; last.End != tt.wantEnd {
				t.Errorf("last end: got %d, want %d", last.End, tt.wantEnd)
			}
		})
	}
}

func TestTranscriptPrompt(t *testing.T) {
	p := transcriptPrompt(Options{Language: "Japanese", TranscriptLanguage: "English", Prompt: "names: Taro"})
	for _, want := range []string{"speech is in Japanese", "transcript in English", "names: Taro"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}

	native := transcriptPrompt(Options{TranscriptLanguage: "native"})
	if strings.Contains(native, "transcript in") || strings.Contains(native, "speech is in") {
		t.Errorf("native prompt names a language:\n%s", native)
	}
}

func TestWhisperToEnglish(t *testing.T) {
	tests := map[string]bool{
		"english":   true,
		"ENGLISH":   true,
		" en ":      true,
		"native":    false,
		"":          false,
		"japanese":  false,
	}
	for lang, want := range tests {
		w := &whisperRecognizer{options: Options{TranscriptLanguage: lang}}
		if got := w.toEnglish(); got != want {
			t.Errorf("toEnglish(%q) = %v, want %v", lang, got, want)
		}
	}
}

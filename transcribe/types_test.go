package transcribe

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestParseJobStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    JobStatus
		wantErr bool
	}{
		{"COMPLETED", JobStatusCompleted, false},
		{"completed", JobStatusCompleted, false},
		{"in_progress", JobStatusInProgress, false},
		{"In-Progress", JobStatusInProgress, false},
		{" FAILED ", JobStatusFailed, false},
		{"QUEUED", "", true},
		{"", "", true},
	}
	for _, tc := range tests {
		got, err := ParseJobStatus(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseJobStatus(%q): expected error=%v, got %v", tc.in, tc.wantErr, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseJobStatus(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestJobStatusUnmarshal(t *testing.T) {
	var s struct {
		Status JobStatus `json:"status"`
	}
	if err := json.Unmarshal([]byte(`{"status":"in_progress"}`), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Status != JobStatusInProgress {
		t.Errorf("expected IN_PROGRESS, got %q", s.Status)
	}
	if err := json.Unmarshal([]byte(`{"status":"QUEUED"}`), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Status != "QUEUED" {
		t.Errorf("expected unknown status kept verbatim, got %q", s.Status)
	}
	if s.Status.Valid() || s.Status.Terminal() {
		t.Error("expected unknown status to be neither valid nor terminal")
	}
}

func TestParseLanguageCode(t *testing.T) {
	for _, in := range []string{"en-US", "en-us", "EN_US"} {
		if got, err := ParseLanguageCode(in); err != nil || got != LanguageCodeEnUS {
			t.Errorf("ParseLanguageCode(%q): expected en-US, got %q (%v)", in, got, err)
		}
	}
	if _, err := ParseLanguageCode("fr-FR"); err == nil {
		t.Error("expected error for unsupported language")
	}
	if LanguageCode("es-us").Valid() {
		t.Error("Valid expects the wire form")
	}
	if !LanguageCodeEsUS.Valid() {
		t.Error("expected es-US to be valid")
	}
}

func TestParseMediaFormat(t *testing.T) {
	tests := map[string]MediaFormat{
		"mp3":  MediaFormatMP3,
		".WAV": MediaFormatWAV,
		"Flac": MediaFormatFLAC,
		"mp4":  MediaFormatMP4,
	}
	for in, want := range tests {
		if got, err := ParseMediaFormat(in); err != nil || got != want {
			t.Errorf("ParseMediaFormat(%q): expected %q, got %q (%v)", in, want, got, err)
		}
	}
	if _, err := ParseMediaFormat("ogg"); err == nil {
		t.Error("expected error for ogg")
	}
}

func TestTimestampDecode(t *testing.T) {
	want := time.UnixMilli(1700000000123).UTC()
	tests := []struct {
		name string
		in   string
	}{
		{"epoch seconds", `1700000000.123`},
		{"rfc3339", `"2023-11-14T22:13:20.123Z"`},
		{"rfc3339 with offset", `"2023-11-14T23:13:20.123+01:00"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tc.in), &ts); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !ts.Equal(want) {
				t.Errorf("expected %v, got %v", want, ts.Time)
			}
		})
	}

	var ts Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Error("expected error for unparseable string")
	}
}

func TestTimestampEncode(t *testing.T) {
	b, err := json.Marshal(NewTimestamp(time.UnixMilli(1700000000123)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != "1700000000.123" {
		t.Errorf("expected 1700000000.123, got %s", b)
	}
	b, _ = json.Marshal(Timestamp{})
	if string(b) != "null" {
		t.Errorf("expected null for zero time, got %s", b)
	}
}

func sampleJob() Job {
	return Job{
		JobSummary: JobSummary{
			JobName:        "job1",
			JobStatus:      JobStatusCompleted,
			LanguageCode:   LanguageCodeEnUS,
			CreationTime:   NewTimestamp(time.UnixMilli(1700000000123)),
			CompletionTime: NewTimestamp(time.UnixMilli(1700000060456)),
		},
		Media:                &Media{FileURI: "s3://b/a.mp3"},
		MediaFormat:          MediaFormatMP3,
		MediaSampleRateHertz: Int32(16000),
		Transcript:           &Transcript{FileURI: "https://b.s3.amazonaws.com/job1.json"},
	}
}

func TestJobRoundTrip(t *testing.T) {
	jobs := []Job{
		sampleJob(),
		{JobSummary: JobSummary{JobName: "failed.job", JobStatus: JobStatusFailed, FailureReason: "Unsupported media"}},
		{},
	}
	for _, in := range jobs {
		b, err := json.Marshal(in)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var out Job
		if err := json.Unmarshal(b, &out); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if !reflect.DeepEqual(in, out) {
			t.Errorf("expected round trip equality\n in: %+v\nout: %+v\nwire: %s", in, out, b)
		}
	}
}

func TestJobWireNames(t *testing.T) {
	b, err := json.Marshal(sampleJob())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wire := string(b)
	for _, field := range []string{
		`"jobName":"job1"`,
		`"jobStatus":"COMPLETED"`,
		`"languageCode":"en-US"`,
		`"creationTime":1700000000.123`,
		`"media":{"fileUri":"s3://b/a.mp3"}`,
		`"mediaFormat":"mp3"`,
		`"mediaSampleRateHertz":16000`,
		`"transcript":{"fileUri":`,
	} {
		if !strings.Contains(wire, field) {
			t.Errorf("expected %s in %s", field, wire)
		}
	}
	if strings.Contains(wire, "JobSummary") {
		t.Errorf("expected summary fields to be flattened, got %s", wire)
	}
}

func TestJobSummary(t *testing.T) {
	job := sampleJob()
	s := job.Summary()
	if s.JobName != "job1" || s.JobStatus != JobStatusCompleted {
		t.Errorf("expected summary of job1, got %+v", s)
	}
}

func TestListResponseDecode(t *testing.T) {
	var resp ListTranscriptionJobsResponse
	body := `{"status":"COMPLETED","nextToken":"abc","jobSummaries":[{"jobName":"a","jobStatus":"COMPLETED"},{"jobName":"b","jobStatus":"COMPLETED"}]}`
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.JobSummaries) != 2 || resp.JobSummaries[1].JobName != "b" {
		t.Errorf("expected ordered summaries a, b, got %+v", resp.JobSummaries)
	}
	if resp.NextToken != "abc" || resp.Status != JobStatusCompleted {
		t.Errorf("expected token abc and status COMPLETED, got %q %q", resp.NextToken, resp.Status)
	}
}

package testutil

import "scanrecon/internal/scan"

// RecordingProgress remembers every progress call.
type RecordingProgress struct {
	Labels   []string
	Totals   []int
	Advanced []string
	Finished int
}

func (p *RecordingProgress) Start(label string, total int) {
	p.Labels = append(p.Labels, label)
	p.Totals = append(p.Totals, total)
}

func (p *RecordingProgress) Advance(file string, _ int64) {
	p.Advanced = append(p.Advanced, file)
}

func (p *RecordingProgress) Finish() { p.Finished++ }

// ScriptedConfirmer answers Confirm calls from a fixed list of answers and
// records the subfolders it was asked about. Once the answers run out it
// declines.
type ScriptedConfirmer struct {
	Answers []bool
	Err     error
	Asked   []string
}

func (c *ScriptedConfirmer) Confirm(done *scan.SubfolderResult, next string) (bool, error) {
	c.Asked = append(c.Asked, done.Name+"->"+next)
	if c.Err != nil {
		return false, c.Err
	}
	if len(c.Asked) > len(c.Answers) {
		return false, nil
	}
	return c.Answers[len(c.Asked)-1], nil
}

var (
	_ scan.ProgressReporter = (*RecordingProgress)(nil)
	_ scan.Confirmer        = (*ScriptedConfirmer)(nil)
)

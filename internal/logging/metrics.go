package logging

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"racerai/internal/sim"
	"racerai/internal/train"
)

// Logger writes per-generation training output: a CSV table, a JSONL stream,
// and a console summary line.
type Logger struct {
	csvPath     string
	jsonPath    string
	csvFile     *os.File
	csvWriter   *csv.Writer
	jsonFile    *os.File
	initialized bool
}

// NewLogger creates a logger, making sure the output directories exist
func NewLogger(csvPath, jsonPath string) (*Logger, error) {
	l := &Logger{
		csvPath:  csvPath,
		jsonPath: jsonPath,
	}

	if err := os.MkdirAll(filepath.Dir(csvPath), 0755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(jsonPath), 0755); err != nil {
		return nil, err
	}

	return l, nil
}

// Init opens the log files and writes the CSV header
func (l *Logger) Init() error {
	var err error

	l.csvFile, err = os.Create(l.csvPath)
	if err != nil {
		return err
	}
	l.csvWriter = csv.NewWriter(l.csvFile)

	header := []string{
		"generation", "best_reward", "mean_reward", "best_ever", "progress",
		"ends_completed", "ends_stuck", "ends_off_course", "ends_step_cap",
	}
	if err := l.csvWriter.Write(header); err != nil {
		return err
	}

	l.jsonFile, err = os.OpenFile(l.jsonPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	l.initialized = true
	return nil
}

// Close flushes and closes all log files
func (l *Logger) Close() {
	if l.csvWriter != nil {
		l.csvWriter.Flush()
	}
	if l.csvFile != nil {
		l.csvFile.Close()
	}
	if l.jsonFile != nil {
		l.jsonFile.Close()
	}
}

// GenerationSummary is the JSONL record for one generation
type GenerationSummary struct {
	Generation int            `json:"generation"`
	Optimizer  string         `json:"optimizer"`
	BestReward float64        `json:"best_reward"`
	MeanReward float64        `json:"mean_reward"`
	BestEver   float64        `json:"best_ever"`
	Progress   int            `json:"progress"`
	Ends       map[string]int `json:"ends"`
}

// LogGeneration records one generation's outcome
func (l *Logger) LogGeneration(gen int, optimizer string, res train.GenerationResult, best *train.BestPerformance) {
	if !l.initialized {
		return
	}

	bestEver := res.BestReward
	if best != nil {
		bestEver = best.Reward
	}

	summary := GenerationSummary{
		Generation: gen,
		Optimizer:  optimizer,
		BestReward: res.BestReward,
		MeanReward: res.MeanReward,
		BestEver:   bestEver,
		Progress:   res.Progress,
		Ends:       make(map[string]int),
	}
	for reason, count := range res.Reasons {
		summary.Ends[reason.String()] = count
	}

	row := []string{
		strconv.Itoa(gen),
		fmt.Sprintf("%.2f", res.BestReward),
		fmt.Sprintf("%.2f", res.MeanReward),
		fmt.Sprintf("%.2f", bestEver),
		strconv.Itoa(res.Progress),
		strconv.Itoa(res.Reasons[sim.TermCompleted]),
		strconv.Itoa(res.Reasons[sim.TermStuck]),
		strconv.Itoa(res.Reasons[sim.TermOffCourse]),
		strconv.Itoa(res.Reasons[sim.TermStepCap]),
	}
	l.csvWriter.Write(row)
	l.csvWriter.Flush()

	jsonLine, _ := json.Marshal(summary)
	l.jsonFile.WriteString(string(jsonLine) + "\n")

	fmt.Printf("Gen %4d | %s | Best: %9.1f | Mean: %9.1f | Ever: %9.1f | Progress: %d | Ends: C=%d St=%d O=%d T=%d\n",
		gen, optimizer, res.BestReward, res.MeanReward, bestEver, res.Progress,
		res.Reasons[sim.TermCompleted], res.Reasons[sim.TermStuck],
		res.Reasons[sim.TermOffCourse], res.Reasons[sim.TermStepCap])
}

// SavePath writes a recorded rollout path as JSON for the visualization layer
func SavePath(path string, points []sim.Point) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(points, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

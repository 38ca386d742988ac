package recorder

import "StratForge/internal/model"

// NoopRecorder is used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) SaveResult(_ *model.BacktestResult) error { return nil }
func (n *NoopRecorder) Close() error                             { return nil }

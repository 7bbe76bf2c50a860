package service

import (
	"context"
	"errors"
	"io"
)

// ── 成绩单解析 ──────────────────────────────────────────────
//
// 成绩单解析是外部协作方，这里只提供固定样例数据的实现：
// 读取（并丢弃）上传内容，返回一组示例已修课程。
// ─────────────────────────────────────────────────────────────

// ErrTranscriptEmpty 上传内容为空
var ErrTranscriptEmpty = errors.New("成绩单文件为空")

// TranscriptEntry 成绩单中的一条修读记录（按课程代码）
type TranscriptEntry struct {
	Code     string
	Semester string
	Grade    string
	Credits  int
}

// TranscriptParser 成绩单解析器
type TranscriptParser interface {
	Parse(ctx context.Context, r io.Reader) ([]TranscriptEntry, error)
}

type sampleTranscriptParser struct{}

// NewSampleTranscriptParser 返回固定样例数据的解析器
func NewSampleTranscriptParser() TranscriptParser {
	return sampleTranscriptParser{}
}

func (sampleTranscriptParser) Parse(_ context.Context, r io.Reader) ([]TranscriptEntry, error) {
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrTranscriptEmpty
	}
	return []TranscriptEntry{
		{Code: "CS101", Semester: "2021-1", Credits: 3},
		{Code: "MATH101", Semester: "2021-1", Credits: 3},
		{Code: "ENG101", Semester: "2021-1", Credits: 3},
		{Code: "PHYS101", Semester: "2021-2", Credits: 3},
		{Code: "CS201", Semester: "2022-1", Credits: 3},
	}, nil
}

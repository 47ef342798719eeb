/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package log

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

type LogLevel int

const (
	LogPrefix  = "[go-gmsl] "
	HelpLevels = "Must be one of: error, warning, info, debug."
)

const (
	ErrorLevel LogLevel = iota
	WarningLevel
	InfoLevel
	DebugLevel
)

var levelNames = map[LogLevel]string{
	ErrorLevel:   "error",
	WarningLevel: "warning",
	InfoLevel:    "info",
	DebugLevel:   "debug",
}

var levelPrefixes = map[LogLevel]string{
	ErrorLevel:   "[error] ",
	WarningLevel: "[warn] ",
	InfoLevel:    "[info] ",
	DebugLevel:   "[debug] ",
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LogLevel(%d)", int(l))
}

// ParseLevel accepts the level names and "warn".
func ParseLevel(s string) (LogLevel, error) {
	if s == "warn" {
		return WarningLevel, nil
	}
	for level, name := range levelNames {
		if name == s {
			return level, nil
		}
	}
	return 0, errors.New("Wrong log level. " + HelpLevels)
}

type Logger struct {
	mu    sync.RWMutex
	level LogLevel
	*log.Logger
}

var logger = &Logger{
	level:  InfoLevel,
	Logger: log.New(os.Stderr, LogPrefix, log.LstdFlags),
}

// Writer returns the destination of the logger.
func Writer() io.Writer {
	return logger.Writer()
}

// Enabled reports whether messages of the given level are printed.
func Enabled(level LogLevel) bool {
	logger.mu.RLock()
	defer logger.mu.RUnlock()
	return logger.level >= level
}

func SetLevel(strLevel string) error {
	level, err := ParseLevel(strLevel)
	if err != nil {
		return err
	}
	logger.mu.Lock()
	logger.level = level
	logger.mu.Unlock()
	return nil
}

// Init directs the output to out and sets the level. The output is kept
// when the level is wrong.
func Init(out io.Writer, strLevel string) error {
	if err := SetLevel(strLevel); err != nil {
		return err
	}
	logger.SetOutput(out)
	return nil
}

func logf(level LogLevel, format string, v ...interface{}) {
	if Enabled(level) {
		logger.Println(levelPrefixes[level] + fmt.Sprintf(format, v...))
	}
}

func Error(format string, v ...interface{}) {
	logf(ErrorLevel, format, v...)
}

func Warning(format string, v ...interface{}) {
	logf(WarningLevel, format, v...)
}

func Info(format string, v ...interface{}) {
	logf(InfoLevel, format, v...)
}

func Debug(format string, v ...interface{}) {
	logf(DebugLevel, format, v...)
}

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
	"bytes"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(&buf, "warn"); err != nil {
		t.Fatal(err)
	}
	defer Init(&bytes.Buffer{}, "info")

	Debug("hidden %d", 1)
	Info("hidden %d", 2)
	Warning("shown %d", 3)
	Error("shown %d", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below the level were printed:\n%s", out)
	}
	for _, want := range []string{LogPrefix, "[warn] shown 3", "[error] shown 4"} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
	if !Enabled(WarningLevel) || Enabled(InfoLevel) {
		t.Error("Enabled() does not follow the level")
	}
	if Writer() != &buf {
		t.Error("Writer() is not the configured output")
	}
}

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"error", "warning", "info", "debug"} {
		level, err := ParseLevel(name)
		if err != nil || level.String() != name {
			t.Errorf("ParseLevel(%s) = %s, %v", name, level, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("unknown level accepted")
	}
}

func TestInitKeepsOutputOnError(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(&buf, "info"); err != nil {
		t.Fatal(err)
	}
	defer Init(&bytes.Buffer{}, "info")
	var other bytes.Buffer
	if err := Init(&other, "loud"); err == nil {
		t.Fatal("Init accepted an unknown level")
	}
	if Writer() != &buf {
		t.Error("output changed by a failed Init")
	}
}

func TestSetLevel(t *testing.T) {
	defer SetLevel("info")
	if err := SetLevel("loud"); err == nil {
		t.Error("unknown level accepted")
	}
	if err := SetLevel("debug"); err != nil || !Enabled(DebugLevel) {
		t.Errorf("SetLevel(debug) = %v", err)
	}
}

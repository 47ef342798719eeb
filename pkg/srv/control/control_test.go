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

package control

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"jinr.ru/greenlab/go-gmsl/pkg/config"
	"jinr.ru/greenlab/go-gmsl/pkg/device"
	"jinr.ru/greenlab/go-gmsl/pkg/diag"
	"jinr.ru/greenlab/go-gmsl/pkg/gmsl"
)

func newTestServer(t *testing.T) (*ControlServer, *httptest.Server) {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), "regs.db")
	ctrl, err := NewControlServer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewControlServer: %v", err)
	}
	ts := httptest.NewServer(ctrl.Api().Handler())
	t.Cleanup(func() {
		ts.Close()
		ctrl.Close()
	})
	return ctrl, ts
}

func get(t *testing.T, url string, v interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if v != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestDevices(t *testing.T) {
	_, ts := newTestServer(t)
	var infos []*DeviceInfo
	if code := get(t, ts.URL+"/api/devices", &infos); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if len(infos) != 1 || infos[0].Name != "des0" || infos[0].Transport != config.TransportSim {
		t.Errorf("devices = %+v", infos)
	}
}

func TestRegReadWrite(t *testing.T) {
	_, ts := newTestServer(t)

	reg := &RegHex{}
	if code := get(t, ts.URL+"/api/reg/r/des0/0x000d", reg); code != http.StatusOK {
		t.Fatalf("read status %d", code)
	}
	if reg.Addr != "0x000d" || reg.Value != "0xb6" {
		t.Errorf("read = %+v", reg)
	}

	body, _ := json.Marshal(&RegHex{Addr: "0x0161", Value: "0x29"})
	resp, err := http.Post(ts.URL+"/api/reg/w/des0", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("write status %d", resp.StatusCode)
	}
	get(t, ts.URL+"/api/reg/r/des0/0x0161", reg)
	if reg.Value != "0x29" {
		t.Errorf("read back %+v", reg)
	}

	var regs []*RegHex
	if code := get(t, ts.URL+"/api/reg/r/des0", &regs); code != http.StatusOK || len(regs) == 0 {
		t.Errorf("read all: status %d, %d registers", code, len(regs))
	}
}

func TestRequestErrors(t *testing.T) {
	_, ts := newTestServer(t)
	for _, tc := range []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown device", "GET", "/api/reg/r/des9/0x0001", "", http.StatusNotFound},
		{"bad address", "GET", "/api/reg/r/des0/0x12345", "", http.StatusNotFound},
		{"bad body", "POST", "/api/reg/w/des0", "{", http.StatusBadRequest},
		{"bad value", "POST", "/api/reg/w/des0", `{"Addr":"0x0001","Value":"0x100"}`, http.StatusBadRequest},
		{"apply unknown device", "POST", "/api/apply/des9", "", http.StatusNotFound},
		{"unknown category", "GET", "/api/diag/des0/bogus", "", http.StatusNotFound},
		{"bad category query", "GET", "/api/diag/des0?category=bogus", "", http.StatusBadRequest},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, ts.URL+tc.path, strings.NewReader(tc.body))
			if err != nil {
				t.Fatal(err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Errorf("status %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}
}

func TestApplyAndDiag(t *testing.T) {
	ctrl, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/apply/des0", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("apply status %d", resp.StatusCode)
	}
	// Stream selection enabled for pipe Y.
	if reg, err := ctrl.RegRead("des0", 0x0160); err != nil || reg.Value&0x10 == 0 {
		t.Errorf("VIDEO_PIPE_EN after apply = %+v, %v", reg, err)
	}

	entry := &RawEntry{}
	if code := get(t, ts.URL+"/api/diag/des0/link_lock", entry); code != http.StatusOK {
		t.Fatalf("link_lock status %d", code)
	}
	if entry.Category != device.CategoryLinkLock || entry.Error != "" || len(entry.Result) == 0 {
		t.Errorf("entry = %+v", entry)
	}

	resp, err = http.Get(ts.URL + "/api/diag/des0/temperature")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotImplemented {
		t.Errorf("temperature status %d", resp.StatusCode)
	}
	na := &RawEntry{}
	if err := json.NewDecoder(resp.Body).Decode(na); err != nil || !na.NotApplicable {
		t.Errorf("temperature entry = %+v, %v", na, err)
	}

	report := &RawReport{}
	url := fmt.Sprintf("%s/api/diag/des0?category=%s&category=%s", ts.URL, device.CategoryDeviceID, device.CategoryVideoLock)
	if code := get(t, url, report); code != http.StatusOK {
		t.Fatalf("diag status %d", code)
	}
	if len(report.Entries) != 2 || report.Entries[0].Category != device.CategoryDeviceID {
		t.Errorf("entries = %+v", report.Entries)
	}
}

func TestDocs(t *testing.T) {
	_, ts := newTestServer(t)

	var doc map[string]interface{}
	if code := get(t, ts.URL+SpecPath, &doc); code != http.StatusOK {
		t.Fatalf("swagger.json status %d", code)
	}
	if doc["swagger"] != "2.0" {
		t.Errorf("swagger = %v", doc["swagger"])
	}

	resp, err := http.Get(ts.URL + "/" + DocsPath)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Errorf("docs: status %d, content type %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
}

func TestStatusOf(t *testing.T) {
	for _, tc := range []struct {
		err  error
		want int
	}{
		{config.ErrDeviceNotFound{Name: "x"}, http.StatusNotFound},
		{diag.ErrUnknownCategory{Name: "x"}, http.StatusNotFound},
		{device.ErrNotApplicable, http.StatusNotImplemented},
		{device.ErrNotSupported, http.StatusBadRequest},
		{device.ErrInvalidConfig{What: "x"}, http.StatusBadRequest},
		{gmsl.ErrTransport{Op: "read", Err: errors.New("nak")}, http.StatusBadGateway},
		{fmt.Errorf("phy 1: %w", gmsl.ErrTransport{Op: "write"}), http.StatusBadGateway},
		{ErrDeviceClosed{Name: "x"}, http.StatusServiceUnavailable},
		{errors.New("other"), http.StatusInternalServerError},
	} {
		if got := statusOf(tc.err); got != tc.want {
			t.Errorf("statusOf(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestUnknownDevice(t *testing.T) {
	ctrl, _ := newTestServer(t)
	var notFound config.ErrDeviceNotFound
	if _, err := ctrl.GetDeviceByName("des9"); !errors.As(err, &notFound) {
		t.Errorf("GetDeviceByName error = %v", err)
	}
	if names := ctrl.DeviceNames(); len(names) != 1 || names[0] != "des0" {
		t.Errorf("DeviceNames() = %v", names)
	}
}

func TestCloseWhileServing(t *testing.T) {
	ctrl, ts := newTestServer(t)

	var wg sync.WaitGroup
	statuses := make(chan int, 8*20)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				resp, err := http.Get(ts.URL + "/api/reg/r/des0/0x000d")
				if err != nil {
					continue
				}
				resp.Body.Close()
				statuses <- resp.StatusCode
			}
		}()
	}
	if err := ctrl.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	wg.Wait()
	close(statuses)

	for code := range statuses {
		switch code {
		case http.StatusOK, http.StatusNotFound, http.StatusServiceUnavailable:
		default:
			t.Errorf("status %d during Close", code)
		}
	}
	if _, err := ctrl.RegRead("des0", 0x000d); err == nil {
		t.Error("RegRead succeeded after Close")
	}
}

func TestClosedDevice(t *testing.T) {
	ctrl, _ := newTestServer(t)
	m, ok := ctrl.lookup("des0")
	if !ok {
		t.Fatal("des0 not managed")
	}
	if err := ctrl.Close(); err != nil {
		t.Fatal(err)
	}
	// A request that looked the device up before Close.
	ctrl.devices["des0"] = m
	var closed ErrDeviceClosed
	if _, err := ctrl.RegRead("des0", 0x000d); !errors.As(err, &closed) {
		t.Errorf("RegRead error = %v, want ErrDeviceClosed", err)
	}
	delete(ctrl.devices, "des0")
}

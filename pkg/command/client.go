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

package command

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/imroc/req"

	"jinr.ru/greenlab/go-gmsl/pkg/command/ifc"
	"jinr.ru/greenlab/go-gmsl/pkg/config"
	"jinr.ru/greenlab/go-gmsl/pkg/srv/control"
)

type ApiClient struct {
	*config.Config
	ApiPrefix string
}

var _ ifc.ApiClient = &ApiClient{}

func NewApiClient(cfg *config.Config) *ApiClient {
	return &ApiClient{
		Config:    cfg,
		ApiPrefix: fmt.Sprintf("http://%s:%d/api", cfg.IP, cfg.ApiPort),
	}
}

func (c *ApiClient) regReadUrl(device, addr string) string {
	return fmt.Sprintf("%s/reg/r/%s/%s", c.ApiPrefix, device, addr)
}

func (c *ApiClient) regReadAllUrl(device string) string {
	return fmt.Sprintf("%s/reg/r/%s", c.ApiPrefix, device)
}

func (c *ApiClient) regWriteUrl(device string) string {
	return fmt.Sprintf("%s/reg/w/%s", c.ApiPrefix, device)
}

func (c *ApiClient) diagUrl(device string, categories ...string) string {
	u := fmt.Sprintf("%s/diag/%s", c.ApiPrefix, device)
	if len(categories) > 0 {
		u += "?" + url.Values{"category": categories}.Encode()
	}
	return u
}

// statusError turns a non-200 response into an error carrying the body the
// server wrote.
func statusError(r *req.Resp) error {
	msg := strings.TrimSpace(r.String())
	if msg == "" {
		return errors.New(r.Response().Status)
	}
	return fmt.Errorf("%s: %s", r.Response().Status, msg)
}

// Devices lists the devices the server manages
func (c *ApiClient) Devices() ([]*control.DeviceInfo, error) {
	r, err := req.Get(fmt.Sprintf("%s/devices", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != http.StatusOK {
		return nil, statusError(r)
	}
	var infos []*control.DeviceInfo
	if err = r.ToJSON(&infos); err != nil {
		return nil, err
	}
	return infos, nil
}

// RegRead sends request to get the value of a register of a device
func (c *ApiClient) RegRead(device, addr string) (string, error) {
	r, err := req.Get(c.regReadUrl(device, addr))
	if err != nil {
		return "", err
	}
	if r.Response().StatusCode != http.StatusOK {
		return "", statusError(r)
	}
	reg := &control.RegHex{}
	err = r.ToJSON(reg)
	if err != nil {
		return "", err
	}
	return reg.Value, nil
}

// RegReadAll sends request to get values of all named registers of a device
func (c *ApiClient) RegReadAll(device string) ([]*control.RegHex, error) {
	r, err := req.Get(c.regReadAllUrl(device))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != http.StatusOK {
		return nil, statusError(r)
	}
	var regs []*control.RegHex
	if err = r.ToJSON(&regs); err != nil {
		return nil, err
	}
	return regs, nil
}

// RegWrite sends request to write the value to a register of a device
func (c *ApiClient) RegWrite(device, addr, value string) error {
	reg := &control.RegHex{
		Addr:  addr,
		Value: value,
	}
	r, err := req.Post(c.regWriteUrl(device), req.BodyJSON(reg))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != http.StatusOK {
		return statusError(r)
	}
	return nil
}

// Apply asks the server to write the configured init parameters to a device
func (c *ApiClient) Apply(device string) error {
	r, err := req.Post(fmt.Sprintf("%s/apply/%s", c.ApiPrefix, device))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != http.StatusOK {
		return statusError(r)
	}
	return nil
}

// Diag runs the given categories on a device, all of them when none is given
func (c *ApiClient) Diag(device string, categories ...string) (*control.RawReport, error) {
	r, err := req.Get(c.diagUrl(device, categories...))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != http.StatusOK {
		return nil, statusError(r)
	}
	report := &control.RawReport{}
	if err = r.ToJSON(report); err != nil {
		return nil, err
	}
	return report, nil
}

// DiagCategory runs one category. A category the part does not have is not
// an error; the returned entry is marked not applicable.
func (c *ApiClient) DiagCategory(device, category string) (*control.RawEntry, error) {
	r, err := req.Get(c.diagUrl(device) + "/" + category)
	if err != nil {
		return nil, err
	}
	switch r.Response().StatusCode {
	case http.StatusOK, http.StatusNotImplemented, http.StatusBadGateway:
	default:
		return nil, statusError(r)
	}
	entry := &control.RawEntry{}
	if err = r.ToJSON(entry); err != nil {
		return nil, err
	}
	if entry.Error != "" && !entry.NotApplicable {
		return entry, errors.New(entry.Error)
	}
	return entry, nil
}

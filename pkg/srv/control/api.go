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

// go-gmsl API
//
// # RESTful APIs to configure and diagnose GMSL deserializers
//
// Schemes: http
// Host: localhost:8000
// BasePath: /api
// Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package control

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-openapi/loads"
	"github.com/go-openapi/runtime/middleware"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"jinr.ru/greenlab/go-gmsl/pkg/config"
	"jinr.ru/greenlab/go-gmsl/pkg/device"
	"jinr.ru/greenlab/go-gmsl/pkg/diag"
	"jinr.ru/greenlab/go-gmsl/pkg/gmsl"
	"jinr.ru/greenlab/go-gmsl/pkg/log"
	"jinr.ru/greenlab/go-gmsl/pkg/srv/control/ifc"
)

//go:embed swagger.json
var swaggerJSON []byte

const (
	SpecPath = "/swagger.json"
	DocsPath = "docs"
)

// RegHex ...
type RegHex struct {
	Addr  string // hexadecimal
	Value string // hexadecimal
}

// DeviceInfo describes a configured device.
type DeviceInfo struct {
	Name       string `json:"name"`
	Index      int    `json:"index"`
	Transport  string `json:"transport"`
	TunnelMode bool   `json:"tunnelMode"`
}

// RawEntry is a diagnostic entry as a client receives it. The result stays
// undecoded since its shape depends on the category.
type RawEntry struct {
	Category      device.Category `json:"category"`
	NotApplicable bool            `json:"notApplicable,omitempty"`
	Error         string          `json:"error,omitempty"`
	Result        json.RawMessage `json:"result,omitempty"`
}

type RawReport struct {
	DiagErr bool        `json:"diagErr"`
	Failed  bool        `json:"failed"`
	Entries []*RawEntry `json:"entries"`
}

type ApiServer struct {
	context.Context
	*config.Config
	*mux.Router
	ctrl ifc.ControlServer
	doc  *loads.Document
}

var _ ifc.ApiServer = &ApiServer{}

func NewApiServer(ctx context.Context, cfg *config.Config, ctrl ifc.ControlServer) (*ApiServer, error) {
	log.Info("Initializing API server with address: %s port: %d", cfg.IP, cfg.ApiPort)

	doc, err := loads.Analyzed(json.RawMessage(swaggerJSON), "")
	if err != nil {
		return nil, err
	}
	log.Debug("Loaded API document version %s", doc.Version())

	s := &ApiServer{
		Context: ctx,
		Config:  cfg,
		ctrl:    ctrl,
		doc:     doc,
	}
	s.configureRouter()
	return s, nil
}

// Handler returns the router wrapped into the API documentation page, the
// access log and panic recovery.
func (s *ApiServer) Handler() http.Handler {
	docs := middleware.Redoc(middleware.RedocOpts{
		SpecURL: SpecPath,
		Path:    DocsPath,
		Title:   "go-gmsl API",
	}, s.Router)
	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(
		handlers.LoggingHandler(log.Writer(), docs))
}

// Run serves until the context is canceled.
func (s *ApiServer) Run() error {
	log.Info("Starting API server: address: %s port: %d", s.Config.IP, s.Config.ApiPort)
	httpServer := &http.Server{
		Handler: s.Handler(),
		Addr:    fmt.Sprintf("%s:%d", s.Config.IP, s.Config.ApiPort),
	}
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-s.Context.Done()
		if err := httpServer.Shutdown(context.Background()); err != nil {
			log.Error("Error while shutting down API server: %s", err)
		}
	}()
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		// Shutdown returns once in-flight requests are done.
		<-stopped
		return s.Context.Err()
	}
	return err
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	s.Router.HandleFunc(SpecPath, s.handleSpec()).Methods("GET")
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	// swagger:operation GET /devices devices
	// ---
	// summary: list configured devices
	subRouter.HandleFunc("/devices", s.handleDevices()).Methods("GET")
	// swagger:operation GET /reg/r/{device}/{addr} reg read
	// ---
	// summary: read register
	subRouter.HandleFunc("/reg/r/{device}/{addr:0x[0-9a-fA-F]{1,4}}", s.handleRegRead()).Methods("GET")
	// swagger:operation GET /reg/r/{device} reg readAll
	// ---
	// summary: read all named registers
	subRouter.HandleFunc("/reg/r/{device}", s.handleRegReadAll()).Methods("GET")
	// swagger:operation POST /reg/w/{device} reg write
	// ---
	// summary: write register
	subRouter.HandleFunc("/reg/w/{device}", s.handleRegWrite()).Methods("POST")
	// swagger:operation POST /apply/{device} apply
	// ---
	// summary: apply configured init parameters
	subRouter.HandleFunc("/apply/{device}", s.handleApply()).Methods("POST")
	// swagger:operation GET /diag/{device} diag
	// ---
	// summary: run diagnostics
	subRouter.HandleFunc("/diag/{device}", s.handleDiag()).Methods("GET")
	subRouter.HandleFunc("/diag/{device}/{category}", s.handleDiagCategory()).Methods("GET")
}

// statusOf maps an error to the HTTP status reported for it.
func statusOf(err error) int {
	var notFound config.ErrDeviceNotFound
	var unknown diag.ErrUnknownCategory
	var invalid device.ErrInvalidConfig
	var transport gmsl.ErrTransport
	var closed ErrDeviceClosed
	switch {
	case errors.As(err, &notFound), errors.As(err, &unknown):
		return http.StatusNotFound
	case errors.Is(err, device.ErrNotApplicable):
		return http.StatusNotImplemented
	case errors.As(err, &invalid), errors.Is(err, device.ErrNotSupported):
		return http.StatusBadRequest
	case errors.As(err, &transport):
		return http.StatusBadGateway
	case errors.As(err, &closed):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Error while encoding response: %s", err)
	}
}

func toRegHex(reg *gmsl.Reg) *RegHex {
	addr, value := reg.Hex()
	return &RegHex{Addr: addr, Value: value}
}

func (s *ApiServer) handleSpec() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(s.doc.Raw())
	}
}

func (s *ApiServer) handleDevices() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		infos := []*DeviceInfo{}
		for _, name := range s.ctrl.DeviceNames() {
			d, err := s.Config.GetDeviceByName(name)
			if err != nil {
				continue
			}
			infos = append(infos, &DeviceInfo{
				Name:       d.Name,
				Index:      d.Index,
				Transport:  d.Transport,
				TunnelMode: d.TunnelMode,
			})
		}
		writeJSON(w, http.StatusOK, infos)
	}
}

func (s *ApiServer) handleRegRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		log.Debug("Handling reg read request: device: %s, addr: %s", vars["device"], vars["addr"])

		addr, err := strconv.ParseUint(vars["addr"], 0, 16)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		reg, err := s.ctrl.RegRead(vars["device"], uint16(addr))
		if err != nil {
			http.Error(w, err.Error(), statusOf(err))
			return
		}

		writeJSON(w, http.StatusOK, toRegHex(reg))
	}
}

func (s *ApiServer) handleRegReadAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		log.Debug("Handling reg read all request: device: %s", vars["device"])

		regs, err := s.ctrl.RegReadAll(vars["device"])
		if err != nil {
			http.Error(w, err.Error(), statusOf(err))
			return
		}

		regsHex := []*RegHex{}
		for _, reg := range regs {
			regsHex = append(regsHex, toRegHex(reg))
		}
		writeJSON(w, http.StatusOK, regsHex)
	}
}

func (s *ApiServer) handleRegWrite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		regHex := &RegHex{}
		err := json.NewDecoder(r.Body).Decode(regHex)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		log.Debug("Handling reg write request: device: %s addr: %s value: %s",
			vars["device"], regHex.Addr, regHex.Value)

		reg, err := gmsl.NewRegFromHex(regHex.Addr, regHex.Value)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err = s.ctrl.RegWrite(vars["device"], reg); err != nil {
			http.Error(w, err.Error(), statusOf(err))
			return
		}
	}
}

func (s *ApiServer) handleApply() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		log.Debug("Handling apply request: device: %s", vars["device"])

		if err := s.ctrl.Apply(vars["device"]); err != nil {
			http.Error(w, err.Error(), statusOf(err))
			return
		}
	}
}

func (s *ApiServer) handleDiag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		log.Debug("Handling diag request: device: %s", vars["device"])

		var cats []device.Category
		for _, name := range r.URL.Query()["category"] {
			c, err := diag.ParseCategory(name)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			cats = append(cats, c)
		}

		report, err := s.ctrl.Diag(vars["device"], cats...)
		if err != nil {
			http.Error(w, err.Error(), statusOf(err))
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func (s *ApiServer) handleDiagCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		log.Debug("Handling diag request: device: %s category: %s", vars["device"], vars["category"])

		c, err := diag.ParseCategory(vars["category"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		res, err := s.ctrl.DiagOne(vars["device"], c)
		entry := &diag.Entry{Category: c, Result: res}
		status := http.StatusOK
		if err != nil {
			status = statusOf(err)
			if status == http.StatusNotFound {
				http.Error(w, err.Error(), status)
				return
			}
			entry.Error = err.Error()
			entry.NotApplicable = errors.Is(err, device.ErrNotApplicable)
		}
		writeJSON(w, status, entry)
	}
}

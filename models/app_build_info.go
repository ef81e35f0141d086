// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

const notAvailable = "N/A"

// AppBuildInfo carries build-time metadata injected with -ldflags. Missing
// values read as "N/A".
type AppBuildInfo struct {
	version string
	date    string
	commit  string
}

// NewAppBuildInfo constructs [AppBuildInfo], replacing empty values with "N/A".
func NewAppBuildInfo(version, date, commit string) AppBuildInfo {
	orNA := func(s string) string {
		if s == "" {
			return notAvailable
		}
		return s
	}
	return AppBuildInfo{version: orNA(version), date: orNA(date), commit: orNA(commit)}
}

func (a AppBuildInfo) Version() string { return a.version }

func (a AppBuildInfo) Date() string { return a.date }

func (a AppBuildInfo) Commit() string { return a.commit }

// Response returns the body of GET /version.
func (a AppBuildInfo) Response() VersionResponse {
	return VersionResponse{Version: a.version, Date: a.date, Commit: a.commit}
}

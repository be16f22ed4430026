// Package repository holds file-backed repository implementations.
package repository

import (
	"encoding/json"
	"sync"

	"github.com/spf13/afero"

	"github.com/vkarpenko/faultlog/internal/app"
	domainrepo "github.com/vkarpenko/faultlog/internal/domain/repository"
)

// accessFile mirrors the operators' access file layout:
//
//	{"main_admins": [1], "admins": [2, 3], "users": [4]}
type accessFile struct {
	MainAdmins []int64 `json:"main_admins"`
	Admins     []int64 `json:"admins"`
	Users      []int64 `json:"users"`
}

// AccessFileRepository implements repository.AccessRepository over a JSON
// file. The file is re-read on every lookup so role changes take effect
// without a restart; a missing or corrupt file degrades to no access.
type AccessFileRepository struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// NewAccessFileRepository creates an access repository reading the given path
func NewAccessFileRepository(fs afero.Fs, path string) *AccessFileRepository {
	return &AccessFileRepository{fs: fs, path: path}
}

// RoleOf resolves a user to a role. RoleNone means no access.
func (r *AccessFileRepository) RoleOf(userID int64) domainrepo.Role {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		app.GetLogger().Warn("access file %s not readable: %v", r.path, err)
		return domainrepo.RoleNone
	}

	var af accessFile
	if err := json.Unmarshal(data, &af); err != nil {
		app.GetLogger().Warn("access file %s corrupt: %v", r.path, err)
		return domainrepo.RoleNone
	}

	switch {
	case contains(af.MainAdmins, userID):
		return domainrepo.RoleMainAdmin
	case contains(af.Admins, userID):
		return domainrepo.RoleAdmin
	case contains(af.Users, userID):
		return domainrepo.RoleUser
	default:
		return domainrepo.RoleNone
	}
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

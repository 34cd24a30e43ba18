package fakes

import (
	"context"
	"fmt"

	"github.com/dockyard-ci/dockyard/docker"
)

// FakeDaemon records build and push calls in order and fails on
// configured tags, standing in for a docker.Client in tests.
type FakeDaemon struct {
	BuiltTags    []string
	PushedTags   []string
	Dockerfiles  map[string]string
	NoCacheSeen  []bool
	FailBuildFor map[string]error
	FailPushFor  map[string]error

	LoginUsername string
	LoginPassword string
	LoginServer   string

	Listed []docker.ImageRef
}

func NewFakeDaemon() *FakeDaemon {
	return &FakeDaemon{
		Dockerfiles:  map[string]string{},
		FailBuildFor: map[string]error{},
		FailPushFor:  map[string]error{},
	}
}

func (f *FakeDaemon) Build(_ context.Context, dockerfile, tag string, nocache bool) error {
	if err, ok := f.FailBuildFor[tag]; ok {
		return err
	}
	f.BuiltTags = append(f.BuiltTags, tag)
	f.Dockerfiles[tag] = dockerfile
	f.NoCacheSeen = append(f.NoCacheSeen, nocache)
	return nil
}

func (f *FakeDaemon) Push(_ context.Context, tag string) error {
	if err, ok := f.FailPushFor[tag]; ok {
		return err
	}
	f.PushedTags = append(f.PushedTags, tag)
	return nil
}

func (f *FakeDaemon) Login(_ context.Context, username, password, serverAddress string) error {
	f.LoginUsername = username
	f.LoginPassword = password
	f.LoginServer = serverAddress
	return nil
}

func (f *FakeDaemon) ListImages(_ context.Context, nameFilter string) ([]docker.ImageRef, error) {
	var refs []docker.ImageRef
	for _, ref := range f.Listed {
		for _, t := range ref.Tags {
			if nameFilter == "" || t == nameFilter {
				refs = append(refs, ref)
				break
			}
		}
	}
	return refs, nil
}

// FailBuild makes subsequent builds of tag fail with a stable error.
func (f *FakeDaemon) FailBuild(tag string) error {
	err := fmt.Errorf("build failed for %s", tag)
	f.FailBuildFor[tag] = err
	return err
}

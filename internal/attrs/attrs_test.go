// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package attrs

import (
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

//go:embed testdata/*.yaml
var testDataFS embed.FS

// cases decodes testdata/<file> into a slice of T.
func cases[T any](t *testing.T, file string) []T {
	t.Helper()
	data, err := testDataFS.ReadFile("testdata/" + file)
	require.NoError(t, err)
	var out []T
	require.NoError(t, yaml.Unmarshal(data, &out))
	require.NotEmpty(t, out, file)
	return out
}

func TestAttrList_Set(t *testing.T) {
	type setCase struct {
		Name      string `yaml:"name"`
		Initial   []Attr `yaml:"initial"`
		Value     string `yaml:"value"`
		WantLen   int    `yaml:"wantLen"`
		WantAttrs []Attr `yaml:"wantAttrs"`
		WantErr   bool   `yaml:"wantErr"`
	}

	for _, tc := range cases[setCase](t, "set_cases.yaml") {
		t.Run(tc.Name, func(t *testing.T) {
			al := AttrList(tc.Initial)
			err := al.Set(tc.Value)
			if tc.WantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, al, tc.WantLen)
			if tc.WantAttrs != nil {
				assert.Equal(t, tc.WantAttrs, []Attr(al[:len(tc.WantAttrs)]))
			}
		})
	}
}

func TestAttrList_SetGlobalTransformSpec(t *testing.T) {
	type globalCase struct {
		Name      string   `yaml:"name"`
		Initial   []Attr   `yaml:"initial"`
		WantSpecs []string `yaml:"wantSpecs"`
	}

	for _, tc := range cases[globalCase](t, "global_transform_cases.yaml") {
		t.Run(tc.Name, func(t *testing.T) {
			al := AttrList(tc.Initial)
			al.SetGlobalTransformSpec()

			got := make([]string, 0, len(al))
			for _, a := range al {
				got = append(got, a.TransformSpec)
			}
			assert.Equal(t, tc.WantSpecs, got)
		})
	}
}

func TestAttr_Transform(t *testing.T) {
	type transformCase struct {
		Name          string `yaml:"name"`
		TransformSpec string `yaml:"transformSpec"`
		Input         any    `yaml:"input"`
		Want          any    `yaml:"want"`
	}

	for _, tc := range cases[transformCase](t, "transform_cases.yaml") {
		t.Run(tc.Name, func(t *testing.T) {
			a := Attr{TransformSpec: tc.TransformSpec}
			assert.Equal(t, tc.Want, a.Transform(tc.Input))
		})
	}
}

func TestAttrList_String(t *testing.T) {
	type stringCase struct {
		Name     string `yaml:"name"`
		AttrList []Attr `yaml:"attrList"`
		Want     string `yaml:"want"`
	}

	for _, tc := range cases[stringCase](t, "string_cases.yaml") {
		t.Run(tc.Name, func(t *testing.T) {
			al := AttrList(tc.AttrList)
			assert.Equal(t, tc.Want, al.String())
		})
	}
}

func TestAttrList_Type(t *testing.T) {
	assert.Equal(t, "list", (&AttrList{}).Type())
}

func TestAttrList_SetThenString(t *testing.T) {
	var al AttrList
	require.NoError(t, al.Set(".id,title::u,image-url:url:-24"))
	assert.Equal(t, "id:id:,attributes.title:title:u,attributes.image-url:url:-24", al.String())

	// Hiding by output name updates the existing attr.
	require.NoError(t, al.Set("!url"))
	require.Len(t, al, 3)
	assert.False(t, al[2].Include)
	assert.Equal(t, "url", al[2].OutputKey)
}

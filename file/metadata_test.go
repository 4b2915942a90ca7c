// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package file_test

import (
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lithium.im/xmpp/dom"
	"lithium.im/xmpp/file"
)

func parse(t *testing.T, s string) *dom.Element {
	t.Helper()
	el, err := dom.Parse(s)
	require.NoError(t, err)
	return el
}

func TestDecode(t *testing.T) {
	el := parse(t, `<file xmlns='urn:xmpp:jingle:apps:file-transfer:5'><media-type>text/plain</media-type><name>test.txt</name><date>2015-07-26T21:46:00+01:00</date><size>6144</size><hash xmlns='urn:xmpp:hashes:2' algo='sha-1'>w0mcJylzCn+AfvuGdqkty2+KP48=</hash></file>`)
	f, err := file.Decode(el)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", f.MediaType)
	assert.Equal(t, "test.txt", f.Name)
	want := time.Date(2015, 7, 26, 21, 46, 0, 0, time.FixedZone("", 3600))
	assert.True(t, f.Date.Equal(want), "date = %v", f.Date)
	assert.True(t, f.HasSize)
	assert.Equal(t, uint64(6144), f.Size)
	require.Len(t, f.Hashes, 1)
	assert.Equal(t, "sha-1", f.Hashes[0].Algorithm)
	sum, _ := base64.StdEncoding.DecodeString("w0mcJylzCn+AfvuGdqkty2+KP48=")
	assert.Equal(t, sum, f.Hashes[0].Sum)
}

func TestDecodeErrors(t *testing.T) {
	for i, test := range []string{
		0: `<file xmlns='urn:xmpp:jingle:apps:file-transfer:5'><name>a</name><name>b</name></file>`,
		1: `<file xmlns='urn:xmpp:jingle:apps:file-transfer:5'><size>big</size></file>`,
		2: `<file xmlns='urn:xmpp:jingle:apps:file-transfer:5'><date>now</date></file>`,
		3: `<file xmlns='urn:xmpp:jingle:apps:file-transfer:5'><desc>a</desc><desc>b</desc></file>`,
		4: `<file xmlns='urn:xmpp:jingle:apps:file-transfer:5'><range/><range/></file>`,
		5: `<file xmlns='urn:xmpp:jingle:apps:file-transfer:5'><coucou/></file>`,
		6: `<file xmlns='urn:xmpp:jingle:apps:file-transfer:5' coucou=''/>`,
		7: `<file xmlns='urn:xmpp:jingle:apps:file-transfer:5'><hash xmlns='urn:xmpp:hashes:2'>AAAA</hash></file>`,
	} {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			_, err := file.Decode(parse(t, test))
			assert.Error(t, err, "decoding %s", test)
		})
	}
}

func TestDecodeDescs(t *testing.T) {
	el := parse(t, `<file xmlns='urn:xmpp:jingle:apps:file-transfer:5'><desc>baz</desc><desc xml:lang='fr'>coucou</desc></file>`)
	f, err := file.Decode(el)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"": "baz", "fr": "coucou"}, f.Descs)
}

func TestDecodeRange(t *testing.T) {
	el := parse(t, `<file xmlns='urn:xmpp:jingle:apps:file-transfer:5'><range offset='2048' length='1024'/></file>`)
	f, err := file.Decode(el)
	require.NoError(t, err)
	require.NotNil(t, f.Range)
	assert.Equal(t, uint64(2048), f.Range.Offset)
	assert.Equal(t, uint64(1024), f.Range.Length)
}

func TestRoundTrip(t *testing.T) {
	in := file.File{
		Name:      "test.txt",
		MediaType: "text/plain",
		Size:      6144,
		HasSize:   true,
		Descs:     map[string]string{"en": "a text file"},
		Hashes:    []file.Hash{{Algorithm: "sha-1", Sum: []byte{1, 2, 3}}},
	}
	out, err := file.Decode(in.Element())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

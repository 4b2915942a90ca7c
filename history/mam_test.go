// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package history_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lithium.im/xmpp/dom"
	"lithium.im/xmpp/history"
	"lithium.im/xmpp/jid"
)

func parse(t *testing.T, s string) *dom.Element {
	t.Helper()
	el, err := dom.Parse(s)
	require.NoError(t, err)
	return el
}

func TestDecodeQuery(t *testing.T) {
	for i, test := range []struct {
		xml string
		err bool
	}{
		0: {`<query xmlns='urn:xmpp:mam:2'/>`, false},
		1: {`<query xmlns='urn:xmpp:mam:2' queryid='f27'/>`, false},
		2: {`<query xmlns='urn:xmpp:mam:2'><x xmlns='jabber:x:data' type='submit'/></query>`, false},
		3: {`<query xmlns='urn:xmpp:mam:2'><set xmlns='http://jabber.org/protocol/rsm'><max>10</max></set></query>`, false},
		4: {`<query xmlns='urn:xmpp:mam:2'><coucou/></query>`, true},
		5: {`<query xmlns='urn:xmpp:mam:2'><x xmlns='jabber:x:data'/><x xmlns='jabber:x:data'/></query>`, true},
	} {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			q, err := history.DecodeQuery(parse(t, test.xml))
			if test.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			switch i {
			case 1:
				assert.Equal(t, "f27", q.QueryID)
			case 3:
				require.NotNil(t, q.Set)
				assert.Equal(t, uint64(10), q.Set.Max)
			}
		})
	}
}

func TestDecodeResult(t *testing.T) {
	el := parse(t, `<result xmlns='urn:xmpp:mam:2' queryid='f27' id='28482-98726-73623'><forwarded xmlns='urn:xmpp:forward:0'><message xmlns='jabber:client'><body>Hail</body></message></forwarded></result>`)
	r, err := history.DecodeResult(el)
	require.NoError(t, err)
	assert.Equal(t, "28482-98726-73623", r.ID)
	assert.Equal(t, "f27", r.QueryID)
	require.NotNil(t, r.Forwarded)
	assert.NotNil(t, r.Forwarded.Child("message", "jabber:client"))

	for i, bad := range []string{
		0: `<result xmlns='urn:xmpp:mam:2'><forwarded xmlns='urn:xmpp:forward:0'/></result>`,
		1: `<result xmlns='urn:xmpp:mam:2' id='x'/>`,
		2: `<result xmlns='urn:xmpp:mam:2' id='x'><coucou/></result>`,
	} {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			_, err := history.DecodeResult(parse(t, bad))
			assert.Error(t, err)
		})
	}
}

func TestDecodeFin(t *testing.T) {
	el := parse(t, `<fin xmlns='urn:xmpp:mam:2' complete='true'><set xmlns='http://jabber.org/protocol/rsm'><first index='0'>23452-4534-1</first><last>390-2342-22</last><count>16</count></set></fin>`)
	f, err := history.DecodeFin(el)
	require.NoError(t, err)
	assert.True(t, f.Complete)
	assert.Equal(t, "390-2342-22", f.Set.Last)
	assert.Equal(t, uint64(16), f.Set.Count)

	_, err = history.DecodeFin(parse(t, `<fin xmlns='urn:xmpp:mam:2'/>`))
	assert.Error(t, err, "fin without set should not decode")
}

func TestPrefs(t *testing.T) {
	el := parse(t, `<prefs xmlns='urn:xmpp:mam:2' default='roster'><always><jid>romeo@montague.lit</jid></always><never><jid>montague@montague.lit</jid></never></prefs>`)
	p, err := history.DecodePrefs(el)
	require.NoError(t, err)
	assert.Equal(t, history.Roster, p.Default)
	require.Len(t, p.Always, 1)
	assert.True(t, p.Always[0].Equal(jid.MustParse("romeo@montague.lit")))
	assert.Len(t, p.Never, 1)

	out, err := history.DecodePrefs(p.Element())
	require.NoError(t, err)
	assert.Equal(t, p, out)

	for i, bad := range []string{
		0: `<prefs xmlns='urn:xmpp:mam:2'/>`,
		1: `<prefs xmlns='urn:xmpp:mam:2' default='sometimes'/>`,
		2: `<prefs xmlns='urn:xmpp:mam:2' default='always' coucou=''/>`,
	} {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			_, err := history.DecodePrefs(parse(t, bad))
			assert.Error(t, err)
		})
	}
}

func TestQueryRoundTrip(t *testing.T) {
	in := history.Query{QueryID: "f27"}
	out, err := history.DecodeQuery(in.Element())
	require.NoError(t, err)
	assert.Equal(t, "f27", out.QueryID)
	assert.Nil(t, out.Form)
	assert.Nil(t, out.Set)
}

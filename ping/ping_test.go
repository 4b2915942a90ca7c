// Copyright 2024 The Lithium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package ping_test

import (
	"fmt"
	"testing"

	"lithium.im/xmpp/dom"
	"lithium.im/xmpp/ping"
)

func TestDecode(t *testing.T) {
	for i, test := range []struct {
		xml string
		err bool
	}{
		0: {`<ping xmlns='urn:xmpp:ping'/>`, false},
		1: {`<ping xmlns='urn:xmpp:ping'><coucou/></ping>`, true},
		2: {`<ping xmlns='urn:xmpp:ping' coucou=''/>`, true},
		3: {`<pong xmlns='urn:xmpp:ping'/>`, true},
		4: {`<ping xmlns='urn:xmpp:pong'/>`, true},
	} {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			el, err := dom.Parse(test.xml)
			if err != nil {
				t.Fatal(err)
			}
			_, err = ping.Decode(el)
			switch {
			case test.err && err == nil:
				t.Errorf("decoding %s: expected error", test.xml)
			case !test.err && err != nil:
				t.Errorf("decoding %s: %v", test.xml, err)
			}
		})
	}
}

func TestElement(t *testing.T) {
	el := ping.Ping{}.Element()
	if el.String() != `<ping xmlns='urn:xmpp:ping'/>` {
		t.Errorf("got %s", el)
	}
}

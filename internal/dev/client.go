package dev

import (
	"encoding/json"
	"strings"
)

// clientScript returns the dev client for page, connecting to its session
// WebSocket and keeping the container in sync.
func clientScript(page, containerID string) string {
	p, _ := json.Marshal("/_nano/ws/" + page)
	c, _ := json.Marshal(containerID)
	return strings.NewReplacer("__WS_PATH__", string(p), "__CONTAINER__", string(c)).Replace(devClientJS)
}

const devClientJS = `
(function() {
    'use strict';

    var container = document.getElementById(__CONTAINER__);
    var reconnectDelay = 1000;
    var ws = null;

    function pathOf(el) {
        var path = [];
        while (el && el !== container) {
            var i = 0;
            for (var s = el.previousElementSibling; s; s = s.previousElementSibling) i++;
            path.unshift(i);
            el = el.parentElement;
        }
        return el === container ? path : null;
    }

    function resolve(path) {
        var el = container;
        for (var i = 0; el && i < path.length; i++) el = el.children[path[i]];
        return el;
    }

    function apply(html) {
        var active = document.activeElement;
        var path = active && container.contains(active) ? pathOf(active) : null;
        var sel = path && 'selectionStart' in active ? [active.selectionStart, active.selectionEnd] : null;
        container.innerHTML = html;
        if (!path) return;
        var el = resolve(path);
        if (!el) return;
        el.focus();
        if (sel && 'setSelectionRange' in el) {
            try { el.setSelectionRange(sel[0], sel[1]); } catch (e) {}
        }
    }

    function send(type, target, data) {
        if (!ws || ws.readyState !== 1) return;
        var path = pathOf(target);
        if (!path) return;
        ws.send(JSON.stringify({type: 'event', event: type, path: path, data: data}));
    }

    ['click', 'dblclick', 'keydown', 'focusin', 'pointerdown'].forEach(function(type) {
        container.addEventListener(type, function(e) {
            send(type, e.target, type === 'keydown' ? {key: e.key} : undefined);
        });
    });
    ['input', 'change'].forEach(function(type) {
        container.addEventListener(type, function(e) {
            var t = e.target;
            send(type, t, {value: t.type === 'checkbox' ? t.checked : t.value});
        });
    });
    container.addEventListener('submit', function(e) {
        e.preventDefault();
        send('submit', e.target);
    });

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        ws = new WebSocket(protocol + '//' + location.host + __WS_PATH__);

        ws.onopen = function() {
            reconnectDelay = 1000;
        };

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }
            switch (msg.type) {
                case 'init':
                    console.log('[nano] session', msg.session, 'mismatches:', msg.mismatches || 0);
                    apply(msg.html);
                    break;
                case 'patch':
                    console.debug('[nano] patch', msg.seq, msg.mutations);
                    apply(msg.html);
                    break;
                case 'reload':
                    location.reload();
                    break;
                case 'error':
                    console.error('[nano]', msg.error);
                    break;
            }
        };

        ws.onclose = function() {
            setTimeout(function() {
                reconnectDelay = Math.min(reconnectDelay * 2, 30000);
                connect();
            }, reconnectDelay);
        };
    }

    connect();
})();
`

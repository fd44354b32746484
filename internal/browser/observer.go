package browser

// observerJS is injected into every document of the recorded page. It
// forwards clicks, input, select/toggle changes, submits, special keys,
// navigation phases and long tasks to the recorder through the
// emitBinding. Elements carrying the data-webtrail attribute belong to the
// recorder's own UI and are flagged so the normalizer drops them.
//
// The script deliberately sends structural element descriptions only
// (tag/id/class chains); no DOM references or full values beyond what the
// redactor will see leave the page.
const emitBinding = "__webtrailEmit"

const observerJS = `(function () {
  if (window.__webtrailObserver) return;
  window.__webtrailObserver = true;

  function chain(el) {
    var out = [];
    var node = el;
    var depth = 0;
    while (node && node.nodeType === 1 && depth < 32) {
      out.push({
        tag: node.tagName ? node.tagName.toLowerCase() : "",
        id: node.id || "",
        classes: node.classList ? Array.prototype.slice.call(node.classList) : [],
        injected: node.hasAttribute && node.hasAttribute("data-webtrail")
      });
      node = node.parentElement;
      depth++;
    }
    return out;
  }

  function fieldId(el) {
    if (!el) return "";
    return el.name || el.id || el.getAttribute("placeholder") || "";
  }

  function emit(payload) {
    payload.ts = Date.now();
    payload.url = location.href;
    try {
      window.` + emitBinding + `(JSON.stringify(payload));
    } catch (e) { /* binding gone: recorder detached */ }
  }

  document.addEventListener("click", function (e) {
    var el = e.target;
    var text = (el.innerText || el.value || "").trim().slice(0, 200);
    emit({ kind: "click", chain: chain(el), field_id: fieldId(el), value: text });
  }, true);

  document.addEventListener("input", function (e) {
    var el = e.target;
    emit({ kind: "input", chain: chain(el), field_id: fieldId(el), value: el.value || "" });
  }, true);

  document.addEventListener("change", function (e) {
    var el = e.target;
    if (el.tagName === "SELECT") {
      var opt = el.options[el.selectedIndex];
      emit({ kind: "select", chain: chain(el), field_id: fieldId(el), value: opt ? opt.text : "" });
    } else if (el.type === "checkbox" || el.type === "radio") {
      emit({ kind: "toggle", chain: chain(el), field_id: fieldId(el), value: el.checked ? "on" : "off" });
    }
  }, true);

  document.addEventListener("submit", function (e) {
    var el = e.target;
    emit({ kind: "submit", chain: chain(el), field_id: fieldId(el), value: el.id || el.name || "form" });
  }, true);

  document.addEventListener("keydown", function (e) {
    if (e.key === "Enter" || e.key === "Tab" || e.key === "Escape") {
      emit({ kind: "keypress", chain: chain(e.target), key: e.key });
    }
  }, true);

  window.addEventListener("beforeunload", function () {
    emit({ kind: "navigation", phase: "leaving" });
  });

  window.addEventListener("popstate", function () {
    emit({ kind: "navigation", phase: "arriving" });
  });

  if (window.PerformanceObserver) {
    try {
      new PerformanceObserver(function (list) {
        list.getEntries().forEach(function (entry) {
          emit({ kind: "performance", entry_type: entry.entryType, duration_ms: entry.duration });
        });
      }).observe({ entryTypes: ["longtask", "navigation"] });
    } catch (e) { /* entry types unsupported on this page */ }
  }
})();`

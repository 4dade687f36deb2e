package builtins

// arrayIterationPolyfill implements the higher-order Array.prototype
// iteration methods in guest source: each is naturally expressed in terms
// of the indexing/length primitives the Array constructor already exposes,
// so there is no native-Go benefit to hand-rolling the control flow.
const arrayIterationPolyfill = `
(function() {
  function toObject(v) {
    if (v === null || v === undefined) { throw new TypeError("Array.prototype method called on null or undefined"); }
    return Object(v);
  }
  Array.prototype.forEach = function(callback, thisArg) {
    var o = toObject(this);
    var len = o.length >>> 0;
    for (var i = 0; i < len; i++) {
      if (i in o) { callback.call(thisArg, o[i], i, o); }
    }
  };
  Array.prototype.map = function(callback, thisArg) {
    var o = toObject(this);
    var len = o.length >>> 0;
    var out = new Array(len);
    for (var i = 0; i < len; i++) {
      if (i in o) { out[i] = callback.call(thisArg, o[i], i, o); }
    }
    return out;
  };
  Array.prototype.filter = function(callback, thisArg) {
    var o = toObject(this);
    var len = o.length >>> 0;
    var out = [];
    for (var i = 0; i < len; i++) {
      if (i in o && callback.call(thisArg, o[i], i, o)) { out.push(o[i]); }
    }
    return out;
  };
  Array.prototype.every = function(callback, thisArg) {
    var o = toObject(this);
    var len = o.length >>> 0;
    for (var i = 0; i < len; i++) {
      if (i in o && !callback.call(thisArg, o[i], i, o)) { return false; }
    }
    return true;
  };
  Array.prototype.some = function(callback, thisArg) {
    var o = toObject(this);
    var len = o.length >>> 0;
    for (var i = 0; i < len; i++) {
      if (i in o && callback.call(thisArg, o[i], i, o)) { return true; }
    }
    return false;
  };
  Array.prototype.reduce = function(callback, initial) {
    var o = toObject(this);
    var len = o.length >>> 0;
    var i = 0;
    var acc;
    var haveAcc = arguments.length > 1;
    if (haveAcc) { acc = initial; }
    for (; i < len; i++) {
      if (!(i in o)) { continue; }
      if (!haveAcc) { acc = o[i]; haveAcc = true; continue; }
      acc = callback(acc, o[i], i, o);
    }
    if (!haveAcc) { throw new TypeError("Reduce of empty array with no initial value"); }
    return acc;
  };
  Array.prototype.reduceRight = function(callback, initial) {
    var o = toObject(this);
    var len = o.length >>> 0;
    var i = len - 1;
    var acc;
    var haveAcc = arguments.length > 1;
    if (haveAcc) { acc = initial; }
    for (; i >= 0; i--) {
      if (!(i in o)) { continue; }
      if (!haveAcc) { acc = o[i]; haveAcc = true; continue; }
      acc = callback(acc, o[i], i, o);
    }
    if (!haveAcc) { throw new TypeError("Reduce of empty array with no initial value"); }
    return acc;
  };
  Array.prototype.toLocaleString = function() {
    var o = toObject(this);
    var len = o.length >>> 0;
    var parts = [];
    for (var i = 0; i < len; i++) {
      var v = o[i];
      parts.push(v === null || v === undefined ? "" : v.toLocaleString());
    }
    return parts.join(",");
  };
})();
`

// functionBindPolyfill implements Function.prototype.bind: the bound
// wrapper's own logic (argument concatenation, call vs construct dispatch)
// is plain guest control flow over call/apply, which are already native.
const functionBindPolyfill = `
(function() {
  Function.prototype.bind = function(boundThis) {
    var target = this;
    if (typeof target !== "function") {
      throw new TypeError("Bind must be called on a function");
    }
    var boundArgs = [];
    for (var i = 1; i < arguments.length; i++) { boundArgs.push(arguments[i]); }
    var bound = function() {
      var callArgs = boundArgs.concat([]);
      for (var j = 0; j < arguments.length; j++) { callArgs.push(arguments[j]); }
      if (this instanceof bound) {
        return target.apply(this, callArgs);
      }
      return target.apply(boundThis, callArgs);
    };
    if (target.prototype) {
      bound.prototype = Object.create(target.prototype);
    }
    return bound;
  };
})();
`

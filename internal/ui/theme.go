package ui

// themeInitScript runs in <head> so the stored colour mode applies before
// first paint.
const themeInitScript = `(function(){
  var root=document.documentElement;
  var media=window.matchMedia('(prefers-color-scheme: dark)');
  function apply(mode){
    var selected=mode==='light'||mode==='dark'?mode:'auto';
    var resolved=selected==='auto'?(media.matches?'dark':'light'):selected;
    root.setAttribute('data-color-mode',selected);
    root.setAttribute('data-theme',resolved);
  }
  var stored='auto';
  try { stored=localStorage.getItem('explorer-ui-theme')||'auto'; } catch (_) {}
  apply(stored);
  window.__explorerTheme=apply;
})();`

// themeToggleScript wires the header toggle button.
const themeToggleScript = `(function(){
  var toggle=document.getElementById('theme-toggle');
  if(!toggle||!window.__explorerTheme){ return; }
  toggle.addEventListener('click', function(){
    var dark=document.documentElement.getAttribute('data-theme')==='dark';
    var next=dark?'light':'dark';
    window.__explorerTheme(next);
    try { localStorage.setItem('explorer-ui-theme', next); } catch (_) {}
  });
})();`

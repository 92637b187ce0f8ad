package scaffold

// ============================================================================
// TEMPLATES — Source text for the minimum project file set
// ============================================================================
// Placeholders use {{name}} syntax and are substituted by expand() in the
// generator. Feature-dependent sections (object class body, bindings,
// migrations) are assembled there, not here.
// ============================================================================

const readmeTemplate = `# {{name}}

{{description}}

## Develop

` + "```" + `
npm install
npm run dev
` + "```" + `

## Deploy

` + "```" + `
npm run deploy
` + "```" + `
{{featureNotes}}`

const packageJSONTemplate = `{
  "name": "{{name}}",
  "version": "0.1.0",
  "private": true,
  "scripts": {
    "dev": "wrangler dev",
    "deploy": "wrangler deploy",
    "check": "tsc --noEmit"
  },
  "devDependencies": {
    "@cloudflare/workers-types": "^4.20250801.0",
    "typescript": "^5.5.0",
    "wrangler": "^4.0.0"
  }
}`

const tsconfigTemplate = `{
  "compilerOptions": {
    "target": "es2022",
    "module": "es2022",
    "moduleResolution": "bundler",
    "lib": ["es2022"],
    "types": ["@cloudflare/workers-types"],
    "strict": true,
    "noEmit": true,
    "skipLibCheck": true
  },
  "include": ["src/**/*.ts"]
}`

// ── Worker entry point fragments ────────────────────────────────────────────

const statelessEntryTemplate = `export default {
  async fetch(request: Request, env: Env): Promise<Response> {
    const url = new URL(request.url);
    if (url.pathname === "/health") {
      return new Response("ok");
    }
    return new Response("{{name}} is running", {
      headers: { "content-type": "text/plain" },
    });
  },
} satisfies ExportedHandler<Env>;

interface Env {}
`

const objectEntryHeaderTemplate = `import { DurableObject } from "cloudflare:workers";

export class {{object}} extends DurableObject<Env> {
`

const objectConstructorKV = `  constructor(ctx: DurableObjectState, env: Env) {
    super(ctx, env);
  }
`

const objectConstructorSQL = `  sql: SqlStorage;

  constructor(ctx: DurableObjectState, env: Env) {
    super(ctx, env);
    this.sql = ctx.storage.sql;
    this.sql.exec(
      "CREATE TABLE IF NOT EXISTS entries (id INTEGER PRIMARY KEY AUTOINCREMENT, value TEXT)"
    );
  }
`

const objectFetchKV = `
  async fetch(request: Request): Promise<Response> {
    const count = ((await this.ctx.storage.get<number>("count")) ?? 0) + 1;
    await this.ctx.storage.put("count", count);
    return Response.json({ count });
  }
`

const objectFetchSQL = `
  async fetch(request: Request): Promise<Response> {
    this.sql.exec("INSERT INTO entries (value) VALUES (?)", request.url);
    const rows = this.sql.exec("SELECT COUNT(*) AS n FROM entries").one();
    return Response.json({ count: rows.n });
  }
`

const objectWebSocketFetch = `
  async fetch(request: Request): Promise<Response> {
    if (request.headers.get("Upgrade") === "websocket") {
      const pair = new WebSocketPair();
      this.ctx.acceptWebSocket(pair[1]);
      return new Response(null, { status: 101, webSocket: pair[0] });
    }
    return new Response("expected websocket", { status: 426 });
  }

  async webSocketMessage(ws: WebSocket, message: string | ArrayBuffer): Promise<void> {
    ws.send(message);
  }

  async webSocketClose(ws: WebSocket, code: number): Promise<void> {
    ws.close(code, "closing");
  }
`

const objectAlarm = `
  async alarm(): Promise<void> {
    await this.ctx.storage.deleteAll();
    await this.ctx.storage.setAlarm(Date.now() + 60 * 60 * 1000);
  }
`

const objectRPC = `
  async value(): Promise<number> {
    return (await this.ctx.storage.get<number>("count")) ?? 0;
  }

  async reset(): Promise<void> {
    await this.ctx.storage.delete("count");
  }
`

const objectEntryFooterTemplate = `}

export default {
  async fetch(request: Request, env: Env): Promise<Response> {
    const url = new URL(request.url);
    if (url.pathname === "/health") {
      return new Response("ok");
    }
    const id = env.{{binding}}.idFromName(url.pathname);
    return env.{{binding}}.get(id).fetch(request);
  },
} satisfies ExportedHandler<Env>;

interface Env {
  {{binding}}: DurableObjectNamespace<{{object}}>;
}
`

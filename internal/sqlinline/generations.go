package sqlinline

const QCreateGenerationLog = `--sql 6f1d2c3a-8b4e-4a59-9c27-1e0b7d5a3f64
create table if not exists generation_log (
    id          uuid primary key,
    request_id  text not null default '',
    source      text not null,
    prompt_id   int,
    prompt      text not null,
    category    text not null,
    success     boolean not null,
    error       text not null default '',
    duration_ms bigint not null default 0,
    bytes       int not null default 0,
    created_at  timestamptz not null default now()
);
`

const QCreateGenerationLogIndex = `--sql 0a7c9e41-52d8-4b6f-8e13-9d4f6b2a7c05
create index if not exists idx_generation_log_created on generation_log(created_at desc);
`

const QInsertGeneration = `--sql 3b8e5f20-7c1a-4d96-a4e2-6c0f9b1d8e37
insert into generation_log(
    id, request_id, source, prompt_id, prompt, category, success, error, duration_ms, bytes, created_at
)
values ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`

const QSelectRecentGenerations = `--sql 9d2f4a6b-1e3c-4f58-b7a0-5c8e2d4f6a19
select id::text, request_id, source, prompt_id, prompt, category, success, error, duration_ms, bytes, created_at
from generation_log
order by created_at desc
limit $1;
`
